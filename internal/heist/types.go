package heist

// Phase identifies a stage in a heist plan's lifecycle.
type Phase int

const (
	// PhaseRecon is the initial scouting stage.
	PhaseRecon Phase = iota
	// PhasePlanning is where an approach must be selected.
	PhasePlanning
	// PhaseInfiltration covers entering the target.
	PhaseInfiltration
	// PhaseExecution covers the job itself.
	PhaseExecution
	// PhaseEscape covers getting out.
	PhaseEscape
	// PhaseComplete is terminal.
	PhaseComplete
)

func (p Phase) String() string {
	switch p {
	case PhaseRecon:
		return "Recon"
	case PhasePlanning:
		return "Planning"
	case PhaseInfiltration:
		return "Infiltration"
	case PhaseExecution:
		return "Execution"
	case PhaseEscape:
		return "Escape"
	case PhaseComplete:
		return "Complete"
	default:
		return "Unknown"
	}
}

// Role is a crew member's job on the heist.
type Role string

const (
	RoleLeader      Role = "leader"
	RoleLookout     Role = "lookout"
	RoleInfiltrator Role = "infiltrator"
	RoleMuscle      Role = "muscle"
	RoleFace        Role = "face"
	RoleSafecracker Role = "safecracker"
)

// ApproachKind names one of the three fixed heist approaches.
type ApproachKind string

const (
	ApproachStealth   ApproachKind = "stealth"
	ApproachForce     ApproachKind = "force"
	ApproachDeception ApproachKind = "deception"
)

// Approach describes one way of running the heist: a risk modifier, a time
// multiplier, and the skills it leans on.
type Approach struct {
	Kind           ApproachKind
	Description    string
	RiskModifier   int
	TimeMultiplier float64
	RequiredSkills []string
}

// ActionCategory groups heist actions for approach-affinity bonuses.
type ActionCategory string

const (
	CategoryStealth ActionCategory = "stealth"
	CategoryCombat  ActionCategory = "combat"
	CategorySocial  ActionCategory = "social"
)

// Action is an ephemeral per-turn value object describing one thing a crew
// member attempts. Actions are supplied by the caller and never stored on
// the plan.
type Action struct {
	Type         string
	Description  string
	Category     ActionCategory
	Difficulty   int
	Risk         int
	Noise        int
	RequiredRole Role
}

// CrewMember assigns a character to a role on the plan.
type CrewMember struct {
	CharacterID string
	Role        Role
}

// Plan is the state of one heist. At most one plan is active at a time; it
// advances through its phases as new immutable copies and is destroyed on
// completion or abort.
type Plan struct {
	ID               string
	TargetLocationID string
	LeaderID         string
	GuildJobID       string
	Crew             []CrewMember
	Phase            Phase
	AlertLevel       int
	MaxAlertLevel    int
	TurnsElapsed     int
	CollectedIntel   []string
	Approaches       []Approach
	SelectedApproach ApproachKind
	LootSecured      []string
	Complications    []string
}

// ActionResult reports the outcome of one heist action.
type ActionResult struct {
	Success        bool
	AlertGenerated int
	Plan           Plan
	Message        string
}

// clone returns a deep copy so transitions never mutate their input.
func (p Plan) clone() Plan {
	out := p
	out.Crew = append([]CrewMember(nil), p.Crew...)
	out.CollectedIntel = append([]string(nil), p.CollectedIntel...)
	out.Approaches = append([]Approach(nil), p.Approaches...)
	out.LootSecured = append([]string(nil), p.LootSecured...)
	out.Complications = append([]string(nil), p.Complications...)
	return out
}
