package intent

import (
	"github.com/louisbranch/undercroft/internal/guild"
	"github.com/louisbranch/undercroft/internal/heist"
	"github.com/louisbranch/undercroft/internal/identity"
	"github.com/louisbranch/undercroft/internal/leverage"
	"github.com/louisbranch/undercroft/internal/notoriety"
	"github.com/louisbranch/undercroft/internal/society"
)

// Kind names a dispatchable intent.
type Kind string

const (
	KindStartHeistPlanning    Kind = "START_HEIST_PLANNING"
	KindAddHeistIntel         Kind = "ADD_HEIST_INTEL"
	KindSelectHeistApproach   Kind = "SELECT_HEIST_APPROACH"
	KindAssignHeistCrew       Kind = "ASSIGN_HEIST_CREW"
	KindAdvanceHeistPhase     Kind = "ADVANCE_HEIST_PHASE"
	KindPerformHeistAction    Kind = "PERFORM_HEIST_ACTION"
	KindAbortHeist            Kind = "ABORT_HEIST"
	KindCommitCrime           Kind = "COMMIT_CRIME"
	KindLowerHeat             Kind = "LOWER_HEAT"
	KindJoinGuild             Kind = "JOIN_GUILD"
	KindAcceptGuildJob        Kind = "ACCEPT_GUILD_JOB"
	KindCompleteGuildJob      Kind = "COMPLETE_GUILD_JOB"
	KindAbandonGuildJob       Kind = "ABANDON_GUILD_JOB"
	KindUseGuildService       Kind = "USE_GUILD_SERVICE"
	KindSetAvailableGuildJobs Kind = "SET_AVAILABLE_GUILD_JOBS"
	KindCreateAlias           Kind = "CREATE_ALIAS"
	KindSwitchPersona         Kind = "SWITCH_PERSONA"
	KindEquipDisguise         Kind = "EQUIP_DISGUISE"
	KindRemoveDisguise        Kind = "REMOVE_DISGUISE"
	KindLearnSecret           Kind = "LEARN_SECRET"
	KindVerifyDisguise        Kind = "VERIFY_DISGUISE"
	KindUseLeverage           Kind = "USE_LEVERAGE"
)

// Intent is one dispatchable request. Kind selects which payload fields are
// read; unused fields are ignored.
type Intent struct {
	Kind        Kind
	CharacterID string

	// Heist payload
	TargetLocationID string
	LeaderID         string
	Intel            string
	Approach         heist.ApproachKind
	CrewCharacterID  string
	CrewRole         heist.Role
	Action           *heist.Action
	ActorID          string
	Roll             *int

	// Crime payload
	CrimeType notoriety.CrimeType
	Severity  int
	Witnessed bool
	IssuerID  string

	// Heat payload
	Amount     float64
	LocationID string

	// Identity payload
	AliasName    string
	AliasHistory string
	Region       string
	PersonaID    string
	Disguise     *identity.Disguise
	Secret       *society.Secret
	Detected     bool
	NpcID        string

	// Guild payload
	GuildID string
	JobID   string
	Jobs    []guild.Job
	Service *guild.Service

	// Leverage payload
	SecretID string
	TargetID string
	Goal     leverage.Goal
}

// Patch is the sparse state update produced by one dispatched intent. Nil
// fields were untouched; the orchestrating host merges the rest into its
// global state.
type Patch struct {
	Notoriety    *notoriety.State
	Bounty       *notoriety.Bounty
	HeistPlan    *heist.Plan
	HeistCleared bool
	Identity     *identity.State
	Membership   *guild.Membership
	Leverage     *leverage.Result
	Log          []string
}

// Empty reports whether the patch carries no state change and no log.
func (p Patch) Empty() bool {
	return p.Notoriety == nil && p.Bounty == nil && p.HeistPlan == nil &&
		!p.HeistCleared && p.Identity == nil && p.Membership == nil &&
		p.Leverage == nil && len(p.Log) == 0
}
