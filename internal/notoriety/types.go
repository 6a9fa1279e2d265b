package notoriety

import "time"

// CrimeType categorizes a committed crime.
type CrimeType string

const (
	CrimeVandalism     CrimeType = "vandalism"
	CrimePickpocketing CrimeType = "pickpocketing"
	CrimeTheft         CrimeType = "theft"
	CrimeSmuggling     CrimeType = "smuggling"
	CrimeForgery       CrimeType = "forgery"
	CrimeBurglary      CrimeType = "burglary"
	CrimeBlackmail     CrimeType = "blackmail"
	CrimeAssault       CrimeType = "assault"
	CrimeArson         CrimeType = "arson"
	CrimeMurder        CrimeType = "murder"
)

// HeatLevel classifies how actively the authorities pursue a character.
type HeatLevel int

const (
	// HeatUnknown indicates the character is not on anyone's mind.
	HeatUnknown HeatLevel = iota
	// HeatSuspected indicates rumors are circulating.
	HeatSuspected
	// HeatWanted indicates guards watch for the character.
	HeatWanted
	// HeatHunted indicates active pursuit.
	HeatHunted
)

func (l HeatLevel) String() string {
	switch l {
	case HeatUnknown:
		return "Unknown"
	case HeatSuspected:
		return "Suspected"
	case HeatWanted:
		return "Wanted"
	case HeatHunted:
		return "Hunted"
	default:
		return "Unknown"
	}
}

// BountyConditions describes how a bounty may be collected.
type BountyConditions string

const (
	// ConditionsAlive requires the target delivered alive.
	ConditionsAlive BountyConditions = "alive"
	// ConditionsDeadOrAlive pays either way.
	ConditionsDeadOrAlive BountyConditions = "dead_or_alive"
)

// Crime is an immutable record of a committed crime. Crimes are appended to
// the notoriety state on commission and never deleted.
type Crime struct {
	ID         string
	Type       CrimeType
	LocationID string
	Timestamp  time.Time
	Severity   int
	Witnessed  bool
}

// Bounty is a reward posted for a character once a crime clears the severity
// threshold. Bounties expire by timestamp and are never otherwise mutated.
type Bounty struct {
	ID         string
	TargetID   string
	IssuerID   string
	Amount     int
	Conditions BountyConditions
	IsActive   bool
	Expiration time.Time
}

// State tracks a character's standing with the authorities for a whole
// playthrough. Heat values are held in [0, 100].
type State struct {
	GlobalHeat  float64
	LocalHeat   map[string]float64
	KnownCrimes []Crime
	Bounties    []Bounty
}

// NewState returns an empty notoriety state.
func NewState() State {
	return State{LocalHeat: map[string]float64{}}
}

// clone returns a deep copy so transitions never mutate their input.
func (s State) clone() State {
	out := State{
		GlobalHeat:  s.GlobalHeat,
		LocalHeat:   make(map[string]float64, len(s.LocalHeat)),
		KnownCrimes: append([]Crime(nil), s.KnownCrimes...),
		Bounties:    append([]Bounty(nil), s.Bounties...),
	}
	for location, heat := range s.LocalHeat {
		out.LocalHeat[location] = heat
	}
	return out
}
