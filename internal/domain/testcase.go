package domain

// DefaultPoints is awarded for a passed test case that does not declare points
const DefaultPoints = 10

// TestCase represents a test case for code execution
type TestCase struct {
	Input          string `json:"input" toml:"input"`
	ExpectedOutput string `json:"expected_output" toml:"expected_output"`
	Points         *int   `json:"points,omitempty" toml:"points"`
}

func (t TestCase) PointsOrDefault() int {
	if t.Points == nil {
		return DefaultPoints
	}
	return *t.Points
}
