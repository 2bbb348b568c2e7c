package types

// CreateModelRequest is the payload of POST /models.
type CreateModelRequest struct {
	// Unique model name. Creating an existing name replaces that model.
	// example: churn
	Name string `json:"name" example:"churn"`
	// Field name -> data type (CLASS, FLOAT or ORDER, case-insensitive).
	// example: {"age":"FLOAT","tier":"CLASS"}
	Types map[string]string `json:"types"`
	// Name of the output (label) field.
	// example: tier
	Output string `json:"output" example:"tier"`
	// Backend options. "framework" selects the backend; other keys are
	// passed to it (e.g., "method", "k").
	// example: {"framework":"native","method":"knn","k":3}
	Config map[string]any `json:"config,omitempty"`
}

// Example is one labeled training row.
type Example struct {
	// Field name -> value.
	// example: {"age":5.0}
	Inputs map[string]any `json:"inputs"`
	// Optional label for the output field.
	// example: gold
	Output any `json:"output,omitempty"`
}

// AddRowsRequest is the payload of POST /models/{name}/rows. Either a single
// example (inputs/output) or a batch (rows) may be sent.
type AddRowsRequest struct {
	Inputs map[string]any `json:"inputs,omitempty"`
	Output any            `json:"output,omitempty"`
	Rows   []Example      `json:"rows,omitempty"`
}

// AddRowsResponse acknowledges accepted rows.
type AddRowsResponse struct {
	// Model name.
	// example: churn
	Name string `json:"name" example:"churn"`
	// Rows accepted by this request.
	// example: 1
	Added int `json:"added" example:"1"`
	// Total buffered rows after this request.
	// example: 42
	TrainingSets int `json:"trainingSets" example:"42"`
	// Model state after this request.
	// example: training
	State string `json:"state" example:"training"`
}

// PredictRequest is the payload of POST /models/{name}/predict.
type PredictRequest struct {
	// Field name -> value. The output field is ignored if present.
	// example: {"age":5.0}
	Inputs map[string]any `json:"inputs"`
}

// PredictResponse carries a backend prediction.
type PredictResponse struct {
	// Model name.
	// example: churn
	Name string `json:"name" example:"churn"`
	// Predicted value; a string for class outputs, a number for float/order outputs.
	// example: gold
	Value any `json:"value"`
}

// ModelStatus is the describe view of a model.
type ModelStatus struct {
	// Model name.
	// example: churn
	Name string `json:"name" example:"churn"`
	// Lifecycle state: created, training, ready, removed or unknown.
	// example: ready
	State string `json:"state" example:"ready"`
	// Backend framework key.
	// example: native
	Framework string `json:"framework,omitempty" example:"native"`
	// Backend method identifier.
	// example: knn
	MethodName string `json:"methodName,omitempty" example:"knn"`
	// Number of buffered training rows, omitted when none were added.
	// example: 42
	TrainingSets int `json:"trainingSets,omitempty" example:"42"`
	// Backend diagnostics (ready models) or the last fit error.
	Info map[string]any `json:"info,omitempty"`
}

// ModelsResponse wraps the list of models returned by GET /models.
type ModelsResponse struct {
	// Registered models, sorted by name.
	Models []ModelStatus `json:"models"`
}

// RemoveResponse is returned by DELETE /models/{name}.
type RemoveResponse struct {
	// Model name.
	// example: churn
	Name string `json:"name" example:"churn"`
	// removed if the model existed, unknown otherwise.
	// example: removed
	Status string `json:"status" example:"removed"`
}

// FrameworksResponse lists registered backend frameworks.
type FrameworksResponse struct {
	// Framework keys, sorted.
	// example: ["native"]
	Frameworks []string `json:"frameworks"`
	// Framework used when create config has none.
	// example: native
	Default string `json:"default" example:"native"`
}

// ErrorResponse is a consistent JSON error payload.
type ErrorResponse struct {
	// Error message.
	// example: No valid ML-Model churn
	Error string `json:"error" example:"No valid ML-Model churn"`
	// HTTP status code.
	// example: 404
	Code int `json:"code" example:"404"`
}
