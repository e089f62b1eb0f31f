package models

// SimulateResponse represents the response from a single simulation.
type SimulateResponse struct {
	ID     string `json:"id,omitempty"` // stored-result handle
	RunID  string `json:"run_id"`
	Status string `json:"status"`

	Summary         RunSummary  `json:"summary"`
	Trajectory      []PeriodRow `json:"trajectory,omitempty"`
	ResidualHistory []float64   `json:"residual_history,omitempty"`
}

// RunSummary contains aggregated results for one solved run.
type RunSummary struct {
	Mode    string `json:"mode"`
	Periods int    `json:"periods"`

	// Iterations and Residual are zero for plain exogenous passes.
	Iterations int     `json:"iterations"`
	Residual   float64 `json:"residual"`

	FinalCapital float64 `json:"final_capital"`
	MeanOutput   float64 `json:"mean_output"`
	MaxPriceGap  float64 `json:"max_price_gap"`
	TotalRevPTC  float64 `json:"total_rev_ptc"`
	TotalRevITC  float64 `json:"total_rev_itc"`
}

// PeriodRow represents one period of a trajectory. Field names match the
// output CSV columns.
type PeriodRow struct {
	Period           int     `json:"period"`
	Technology       float64 `json:"a"`
	DividendTax      float64 `json:"td"`
	ProductionCredit float64 `json:"sub"`
	InvestmentCredit float64 `json:"itc"`
	Price            float64 `json:"p"`
	NetPrice         float64 `json:"p_net"`
	NetCapitalPrice  float64 `json:"pk_net"`
	Gamma            float64 `json:"gamma"`
	ShadowSteady     float64 `json:"lam_ss"`
	InvestSteady     float64 `json:"inv_ss"`
	CapitalSteady    float64 `json:"cap_ss"`
	Shadow           float64 `json:"lam"`
	Capital          float64 `json:"cap"`
	Investment       float64 `json:"inv"`
	Output           float64 `json:"q"`
	Consumption      float64 `json:"cons"`
	RevPTC           float64 `json:"rev_ptc"`
	RevITC           float64 `json:"rev_itc"`
	MarketPrice      float64 `json:"p_market"`
	PriceGap         float64 `json:"p_diff"`
}

// BatchResponse represents the response from a batch run.
type BatchResponse struct {
	Status string      `json:"status"` // "completed" or "completed_with_failures"
	Runs   []RunResult `json:"runs"`
}

// RunResult contains the terminal status of one run in a batch.
type RunResult struct {
	RunID  string `json:"run_id"`
	ID     string `json:"id,omitempty"` // stored-result handle, set on success
	Status string `json:"status"`       // "completed" or "failed"

	Summary *RunSummary  `json:"summary,omitempty"`
	Error   *ErrorDetail `json:"error,omitempty"`
}

// CompareResponse represents the response from a comparison.
type CompareResponse struct {
	BaseID   string        `json:"base_id"`
	Rankings []RankedDelta `json:"rankings"`

	// Failures lists variations that could not be solved or compared.
	Failures []RunResult `json:"failures,omitempty"`
}

// RankedDelta summarizes one variation against the baseline, scenario minus
// base. Peak values keep their sign.
type RankedDelta struct {
	Rank       int    `json:"rank"`
	ScenarioID string `json:"scenario_id"`

	MeanOutput  float64 `json:"mean_output"`
	PeakOutput  float64 `json:"peak_output"`
	PeakCapital float64 `json:"peak_capital"`
	TotalRevPTC float64 `json:"total_rev_ptc"`
	TotalRevITC float64 `json:"total_rev_itc"`

	Deltas []DeltaRow `json:"deltas,omitempty"`
}

// DeltaRow is one period's scenario-minus-base difference.
type DeltaRow struct {
	Period      int     `json:"period"`
	Price       float64 `json:"p"`
	MarketPrice float64 `json:"p_market"`
	Output      float64 `json:"q"`
	Investment  float64 `json:"inv"`
	Capital     float64 `json:"cap"`
	RevPTC      float64 `json:"rev_ptc"`
	RevITC      float64 `json:"rev_itc"`
}

// TrajectoryResponse returns a stored run's full path.
type TrajectoryResponse struct {
	ID    string `json:"id"`
	RunID string `json:"run_id"`
	Mode  string `json:"mode"`

	Trajectory      []PeriodRow `json:"trajectory"`
	ResidualHistory []float64   `json:"residual_history,omitempty"`
}

// ModeInfo describes one price mode.
type ModeInfo struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Parameters  []ParameterInfo `json:"parameters,omitempty"`
}

// ParameterInfo describes a solver parameter.
type ParameterInfo struct {
	Name        string      `json:"name"`
	Type        string      `json:"type"` // "float", "int"
	Description string      `json:"description"`
	Default     interface{} `json:"default,omitempty"`
}

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail contains error information.
type ErrorDetail struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}
