package roadrunner

import (
	"encoding/json"
	"fmt"
	"strconv"

	g "github.com/hhkbp2/roadrunner/generator"
)

type Operation uint8

const (
	OpGet Operation = 1 + iota
	OpUpsert
)

func (self Operation) String() string {
	switch self {
	case OpGet:
		return "Get"
	case OpUpsert:
		return "Upsert"
	default:
		return "Unknown"
	}
}

// OperationChooser decides, per operation attempt, whether a worker
// performs a read or a write. It is a pure decision function: no state
// beyond the random draw, no retries.
//
// In the load phase every attempt is a write, so that the keyspace gets
// fully populated. In the run phase writes are chosen with probability
// writeRatio/(readRatio+writeRatio).
type OperationChooser struct {
	phase   Phase
	chooser *g.DiscreteGenerator
}

// NewOperationChooser builds a chooser from integer ratio weights.
// Each worker must have its own instance.
func NewOperationChooser(phase Phase, readRatio, writeRatio int64) *OperationChooser {
	chooser := g.NewDiscreteGenerator()
	if readRatio > 0 {
		chooser.AddValue(float64(readRatio), OpGet.String())
	}
	if writeRatio > 0 {
		chooser.AddValue(float64(writeRatio), OpUpsert.String())
	}
	return &OperationChooser{
		phase:   phase,
		chooser: chooser,
	}
}

func (self *OperationChooser) Next() Operation {
	if self.phase == PhaseLoad {
		return OpUpsert
	}
	if self.chooser.NextString() == OpGet.String() {
		return OpGet
	}
	return OpUpsert
}

// DocumentGenerator produces the document stored under a key, and the
// label under which operations on such documents are measured.
type DocumentGenerator interface {
	ValueFor(key string) Binary
	LabelFor(op Operation) string
}

type MakeDocumentGeneratorFunc func(p Properties) (DocumentGenerator, error)

// DocumentGenerators maps a workload class name (the "class" option) to
// its constructor.
var DocumentGenerators = map[string]MakeDocumentGeneratorFunc{
	"Simple": func(p Properties) (DocumentGenerator, error) {
		return NewSimpleDocumentGenerator(p)
	},
	"Json": func(p Properties) (DocumentGenerator, error) {
		return NewJsonDocumentGenerator(p)
	},
}

func NewDocumentGenerator(className string, p Properties) (DocumentGenerator, error) {
	f, ok := DocumentGenerators[className]
	if !ok {
		return nil, fmt.Errorf("%w: unsupported document class: %s",
			ErrConfig, className)
	}
	return f(p)
}

const (
	PropertyDocumentSize        = "document.size"
	PropertyDocumentSizeDefault = "256"
)

func documentSize(p Properties) (int64, error) {
	propStr := p.GetDefault(PropertyDocumentSize, PropertyDocumentSizeDefault)
	size, err := strconv.ParseInt(propStr, 0, 64)
	if err != nil || size < 1 {
		return 0, fmt.Errorf("%w: %s: invalid size %s",
			ErrConfig, PropertyDocumentSize, propStr)
	}
	return size, nil
}

// SimpleDocumentGenerator fills documents with random bytes of the
// configured size.
type SimpleDocumentGenerator struct {
	size int64
}

func NewSimpleDocumentGenerator(p Properties) (*SimpleDocumentGenerator, error) {
	size, err := documentSize(p)
	if err != nil {
		return nil, err
	}
	return &SimpleDocumentGenerator{
		size: size,
	}, nil
}

func (self *SimpleDocumentGenerator) ValueFor(key string) Binary {
	return RandomBytes(self.size)
}

func (self *SimpleDocumentGenerator) LabelFor(op Operation) string {
	return op.String()
}

type jsonDocument struct {
	Id      string `json:"id"`
	Payload string `json:"payload"`
}

// JsonDocumentGenerator produces small JSON documents whose id field is
// derived from the key, padded with a random payload of the configured
// size.
type JsonDocumentGenerator struct {
	size int64
}

func NewJsonDocumentGenerator(p Properties) (*JsonDocumentGenerator, error) {
	size, err := documentSize(p)
	if err != nil {
		return nil, err
	}
	return &JsonDocumentGenerator{
		size: size,
	}, nil
}

var payloadAlphabet = []byte("abcdefghijklmnopqrstuvwxyz0123456789")

func (self *JsonDocumentGenerator) ValueFor(key string) Binary {
	payload := make([]byte, self.size)
	for i, b := range RandomBytes(self.size) {
		payload[i] = payloadAlphabet[int(b)%len(payloadAlphabet)]
	}
	doc := &jsonDocument{
		Id:      key,
		Payload: string(payload),
	}
	b, err := json.Marshal(doc)
	if err != nil {
		// A flat struct of strings cannot fail to marshal.
		panic(err)
	}
	return b
}

func (self *JsonDocumentGenerator) LabelFor(op Operation) string {
	return op.String() + "Json"
}
