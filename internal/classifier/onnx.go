package classifier

import (
	"fmt"
	"sync"

	ort "github.com/yalue/onnxruntime_go"
)

// Model tensor names, fixed at export time.
const (
	inputName  = "input"
	outputName = "output"
)

// ONNXBackend runs the exported classifier through onnxruntime. The
// model artifact is loaded once and reused for every inference call.
type ONNXBackend struct {
	session *ort.DynamicAdvancedSession

	// onnxruntime sessions are not documented as safe for concurrent
	// Run calls with shared tensors, so serialize them.
	mu sync.Mutex
}

// NewONNXBackend initializes the onnxruntime environment (once per
// process) and loads the model artifact at modelPath. libraryPath may
// point at a specific onnxruntime shared library; empty means the
// platform default.
func NewONNXBackend(modelPath, libraryPath string) (*ONNXBackend, error) {
	if libraryPath != "" {
		ort.SetSharedLibraryPath(libraryPath)
	}
	if !ort.IsInitialized() {
		if err := ort.InitializeEnvironment(); err != nil {
			return nil, fmt.Errorf("failed to initialize onnxruntime: %w", err)
		}
	}

	session, err := ort.NewDynamicAdvancedSession(modelPath,
		[]string{inputName}, []string{outputName}, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to load model %s: %w", modelPath, err)
	}

	return &ONNXBackend{session: session}, nil
}

func (b *ONNXBackend) Run(input []float32) ([]float32, error) {
	in, err := ort.NewTensor(ort.NewShape(1, InputSize, InputSize, 3), input)
	if err != nil {
		return nil, fmt.Errorf("failed to create input tensor: %w", err)
	}
	defer in.Destroy()

	out, err := ort.NewEmptyTensor[float32](ort.NewShape(1, int64(len(Labels))))
	if err != nil {
		return nil, fmt.Errorf("failed to create output tensor: %w", err)
	}
	defer out.Destroy()

	b.mu.Lock()
	err = b.session.Run([]ort.Value{in}, []ort.Value{out})
	b.mu.Unlock()
	if err != nil {
		return nil, fmt.Errorf("model run failed: %w", err)
	}

	data := out.GetData()
	output := make([]float32, len(data))
	copy(output, data)
	return output, nil
}

func (b *ONNXBackend) Close() error {
	return b.session.Destroy()
}
