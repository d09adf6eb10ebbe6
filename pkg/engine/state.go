package engine

// State is the engine's lifecycle phase. The zero value is Idle.
type State int

const (
	Idle State = iota
	Generating
	Evaluating
	Selecting
	Mutating
	Completed
	Failed
)

var stateNames = [...]string{
	"idle",
	"generating",
	"evaluating",
	"selecting",
	"mutating",
	"completed",
	"failed",
}

func (s State) String() string {
	if s < Idle || s > Failed {
		return "unknown"
	}
	return stateNames[s]
}

// Snapshot is a point-in-time view of a run. GetState returns one; reading it
// never disturbs the run.
type Snapshot struct {
	State          State   `json:"state"`
	Generation     int     `json:"generation"`
	PopulationSize int     `json:"population_size"`
	ArchiveSize    int     `json:"archive_size"`
	BestFitness    float64 `json:"best_fitness"`
	ComputeTarget  string  `json:"compute_target"`
}
