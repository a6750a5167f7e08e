// Package classifier wraps the pretrained waste-classification model.
// It decodes and preprocesses uploaded image bytes, runs a single
// inference call against a model backend, and maps the output to one
// of twelve material labels with a confidence percentage.
package classifier

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"math"

	"github.com/nfnt/resize"

	"github.com/greenbin-app/greenbin/internal/models"
)

// Labels lists the twelve material categories in model output order.
var Labels = []string{
	"Battery",
	"Biological",
	"Brown-glass",
	"Cardboard",
	"Clothes",
	"Green-glass",
	"Metal",
	"Paper",
	"Plastic",
	"Shoes",
	"Trash",
	"White-glass",
}

// InputSize is the square resolution the model expects.
const InputSize = 224

// ErrDecode reports image bytes that could not be decoded. The model is
// never invoked for such input.
var ErrDecode = errors.New("undecodable image")

// Backend runs one inference call over a preprocessed NHWC float32
// tensor and returns the raw per-label outputs.
type Backend interface {
	Run(input []float32) ([]float32, error)
	Close() error
}

type Classifier struct {
	backend Backend
}

func New(backend Backend) *Classifier {
	return &Classifier{backend: backend}
}

// Classify decodes, preprocesses, and classifies raw image bytes.
func (c *Classifier) Classify(data []byte) (models.Classification, error) {
	input, err := Preprocess(data)
	if err != nil {
		return models.Classification{}, err
	}

	output, err := c.backend.Run(input)
	if err != nil {
		return models.Classification{}, fmt.Errorf("inference failed: %w", err)
	}
	if len(output) != len(Labels) {
		return models.Classification{}, fmt.Errorf("model returned %d outputs, expected %d", len(output), len(Labels))
	}

	probs := softmax(output)
	idx := argmax(probs)

	return models.Classification{
		Label:      Labels[idx],
		Confidence: float64(probs[idx]) * 100,
	}, nil
}

func (c *Classifier) Close() error {
	return c.backend.Close()
}

// Preprocess decodes image bytes, resizes to InputSize x InputSize, and
// normalizes RGB values into [0,1] as an NHWC float32 tensor.
func Preprocess(data []byte) ([]float32, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}

	resized := resize.Resize(InputSize, InputSize, img, resize.Bilinear)

	input := make([]float32, InputSize*InputSize*3)
	i := 0
	bounds := resized.Bounds()
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			r, g, b, _ := resized.At(x, y).RGBA()
			input[i] = float32(r>>8) / 255.0
			input[i+1] = float32(g>>8) / 255.0
			input[i+2] = float32(b>>8) / 255.0
			i += 3
		}
	}

	return input, nil
}

func softmax(logits []float32) []float32 {
	max := logits[0]
	for _, v := range logits[1:] {
		if v > max {
			max = v
		}
	}

	probs := make([]float32, len(logits))
	var sum float64
	for i, v := range logits {
		e := math.Exp(float64(v - max))
		probs[i] = float32(e)
		sum += e
	}
	for i := range probs {
		probs[i] = float32(float64(probs[i]) / sum)
	}
	return probs
}

func argmax(values []float32) int {
	idx := 0
	for i, v := range values {
		if v > values[idx] {
			idx = i
		}
	}
	return idx
}
