// Package guild manages a character's standing in a thieves' guild:
// membership, rank, reputation, and the job board.
//
// Membership is a tagged state: the zero value is "not yet joined" and every
// operation on it is a no-op rather than an error, so callers never have to
// synthesize a placeholder record.
package guild

import (
	"fmt"

	"github.com/louisbranch/undercroft/internal/derr"
)

// Rank orders guild standing from newest recruit to master.
type Rank int

const (
	RankInitiate Rank = iota
	RankFootpad
	RankOperative
	RankShadow
	RankMaster
)

func (r Rank) String() string {
	switch r {
	case RankInitiate:
		return "Initiate"
	case RankFootpad:
		return "Footpad"
	case RankOperative:
		return "Operative"
	case RankShadow:
		return "Shadow"
	case RankMaster:
		return "Master"
	default:
		return "Unknown"
	}
}

// rankThresholds maps reputation floors to ranks, highest first.
var rankThresholds = []struct {
	reputation int
	rank       Rank
}{
	{150, RankMaster},
	{90, RankShadow},
	{50, RankOperative},
	{20, RankFootpad},
	{0, RankInitiate},
}

// abandonPenalty is the reputation cost of walking away from a job.
const abandonPenalty = 5

// Job is one posting on the guild board.
type Job struct {
	ID               string
	Name             string
	Description      string
	TargetLocationID string
	GoldReward       int
	ReputationReward int
}

// Service is something the guild offers members for a fee.
type Service struct {
	Name    string
	Fee     int
	MinRank Rank
}

// Membership is a character's guild record. Joined distinguishes a real
// member from the "not yet joined" zero value.
type Membership struct {
	Joined          bool
	GuildID         string
	Rank            Rank
	Reputation      int
	ActiveJob       *Job
	AvailableJobs   []Job
	CompletedJobIDs []string
}

// JobOutcome reports the rewards of a completed job.
type JobOutcome struct {
	GoldReward       int
	ReputationGained int
	NewRank          Rank
	Promoted         bool
}

// ServiceOutcome reports whether a guild service was rendered.
type ServiceOutcome struct {
	Rendered bool
	Fee      int
	Message  string
}

// clone returns a deep copy so transitions never mutate their input.
func (m Membership) clone() Membership {
	out := m
	out.AvailableJobs = append([]Job(nil), m.AvailableJobs...)
	out.CompletedJobIDs = append([]string(nil), m.CompletedJobIDs...)
	if m.ActiveJob != nil {
		job := *m.ActiveJob
		out.ActiveJob = &job
	}
	return out
}

// Join enrolls the character. Joining twice keeps the existing record.
func Join(m Membership, guildID string) Membership {
	if m.Joined {
		return m.clone()
	}
	return Membership{Joined: true, GuildID: guildID, Rank: RankInitiate}
}

// SetAvailableJobs replaces the job board.
func SetAvailableJobs(m Membership, jobs []Job) Membership {
	out := m.clone()
	if !out.Joined {
		return out
	}
	out.AvailableJobs = append([]Job(nil), jobs...)
	return out
}

// AcceptJob takes a posting off the board as the active job.
func AcceptJob(m Membership, jobID string) (Membership, error) {
	if !m.Joined {
		return m.clone(), nil
	}
	for i, job := range m.AvailableJobs {
		if job.ID == jobID {
			out := m.clone()
			accepted := job
			out.ActiveJob = &accepted
			out.AvailableJobs = append(out.AvailableJobs[:i], out.AvailableJobs[i+1:]...)
			return out, nil
		}
	}
	return Membership{}, derr.New(derr.CodeGuildUnknownJob,
		fmt.Sprintf("job %q is not on the board", jobID))
}

// CompleteJob finishes the active job, banks its rewards, and promotes when
// a reputation threshold is crossed. Without an active job it is a no-op.
func CompleteJob(m Membership) (Membership, JobOutcome) {
	if !m.Joined || m.ActiveJob == nil {
		return m.clone(), JobOutcome{NewRank: m.Rank}
	}

	out := m.clone()
	job := *out.ActiveJob
	out.ActiveJob = nil
	out.CompletedJobIDs = append(out.CompletedJobIDs, job.ID)
	out.Reputation += job.ReputationReward

	previousRank := out.Rank
	out.Rank = rankFor(out.Reputation)

	return out, JobOutcome{
		GoldReward:       job.GoldReward,
		ReputationGained: job.ReputationReward,
		NewRank:          out.Rank,
		Promoted:         out.Rank > previousRank,
	}
}

// AbandonJob drops the active job at a reputation cost, floored at zero.
func AbandonJob(m Membership) Membership {
	if !m.Joined || m.ActiveJob == nil {
		return m.clone()
	}
	out := m.clone()
	out.ActiveJob = nil
	out.Reputation -= abandonPenalty
	if out.Reputation < 0 {
		out.Reputation = 0
	}
	out.Rank = rankFor(out.Reputation)
	return out
}

// UseService renders a guild service when the member's rank qualifies. The
// fee is reported for the caller to book against the character's wallet.
func UseService(m Membership, service Service) (Membership, ServiceOutcome) {
	if !m.Joined {
		return m.clone(), ServiceOutcome{Message: "the guild does not know you"}
	}
	if m.Rank < service.MinRank {
		return m.clone(), ServiceOutcome{
			Message: fmt.Sprintf("%s is reserved for rank %s and above", service.Name, service.MinRank),
		}
	}
	return m.clone(), ServiceOutcome{
		Rendered: true,
		Fee:      service.Fee,
		Message:  fmt.Sprintf("the guild provides %s for %d gold", service.Name, service.Fee),
	}
}

// rankFor maps a reputation total to a rank.
func rankFor(reputation int) Rank {
	for _, threshold := range rankThresholds {
		if reputation >= threshold.reputation {
			return threshold.rank
		}
	}
	return RankInitiate
}
