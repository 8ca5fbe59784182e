package core

// The types below mirror the JSON-like input schema of spec.md §6
// field-for-field, so an external loader (out of scope here) can
// unmarshal directly into them with encoding/json before the caller
// converts them into a ProblemInputs. The core never reads these from
// disk itself.

type MotionPlannerSpec struct {
	Type        string                 `json:"type"` // "prm" | "rrt"
	Environment string                 `json:"environment"`
	Parameters  map[string]interface{} `json:"parameters"`
}

type SpeciesSpec struct {
	Name           string    `json:"name"`
	Traits         []float64 `json:"traits"`
	BoundingRadius float64   `json:"bounding_radius"`
	Speed          float64   `json:"speed"`
	MotionPlanner  string    `json:"motion_planner"`
}

type RobotSpec struct {
	Name                 string      `json:"name"`
	Species              string      `json:"species"`
	InitialConfiguration interface{} `json:"initial_configuration"`
}

type TaskSpec struct {
	Name                  string      `json:"name"`
	StaticDuration        float64     `json:"static_duration"`
	DesiredTraits         []float64   `json:"desired_traits"`
	InitialConfiguration  interface{} `json:"initial_configuration"`
	TerminalConfiguration interface{} `json:"terminal_configuration"`
}

type MakespanBounds struct {
	Best  float64 `json:"best"`
	Worst float64 `json:"worst"`
}

type InputDocument struct {
	MotionPlanners []MotionPlannerSpec `json:"motion_planners"`
	Species        []SpeciesSpec       `json:"species"`
	Robots         []RobotSpec         `json:"robots"`
	Tasks          []TaskSpec          `json:"tasks"`
	Precedence     [][2]int            `json:"precedence"`
	MakespanBounds MakespanBounds      `json:"makespan_bounds"`
}
