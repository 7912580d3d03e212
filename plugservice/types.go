package plugservice

// HealthResult is the health capability's answer.
type HealthResult struct {
	Timestamp int64  `json:"timestamp"`
	Status    string `json:"status"`
}

// KernelStartResult names the kernel instance created by kernelStart. All
// subsequent kernel operations reference the instance by this name; the
// runtime threads it through but does not track instance state itself.
type KernelStartResult struct {
	Instance string `json:"instance"`
}

// KernelInfo describes the runtime backing a kernel instance.
type KernelInfo struct {
	Name            string `json:"name"`
	Version         string `json:"version,omitempty"`
	OperatingSystem string `json:"operatingSystem,omitempty"`
}

// ExecuteResult carries the outputs of executing a block of code.
type ExecuteResult struct {
	Outputs  []any `json:"outputs"`
	Messages []any `json:"messages"`
}

// EvaluateResult carries the value of evaluating a single expression.
type EvaluateResult struct {
	Output   []any `json:"output"`
	Messages []any `json:"messages"`
}

// Variable describes one named value held by a kernel instance.
type Variable struct {
	Name  string `json:"name"`
	Kind  string `json:"kind,omitempty"`
	Value any    `json:"value,omitempty"`
}

// Task is the assistant task description supplied by the host. Its shape is
// owned by the host/plugin pair; the runtime passes it through opaquely.
type Task map[string]any

// TaskOptions carries host-supplied generation options for a task.
type TaskOptions map[string]any
