package risk

import "sync/atomic"

// fallbackCode is returned for values (or whole features) the trained
// encoders never saw. Code 0 is whatever category happened to receive code 0
// during training; mapping unseen values onto it trades precision for never
// failing a prediction. Do not assume code 0 carries semantic meaning.
const fallbackCode = 0

type (
	// Encoder maps one categorical feature's trained vocabulary to the
	// integer codes the classifier was fitted with. Immutable after
	// construction; codes never change without retraining.
	Encoder struct {
		classes map[string]int
	}

	// EncoderSet holds one Encoder per categorical feature. Read-only after
	// load and safe for unlimited concurrent use.
	EncoderSet struct {
		encoders map[string]Encoder
		unseen   int64 // count of fallback encodings, for observability
	}
)

func NewEncoder(classes map[string]int) Encoder {
	cp := make(map[string]int, len(classes))
	for class, code := range classes {
		cp[class] = code
	}
	return Encoder{classes: cp}
}

// Encode returns the trained code for raw, or the fallback code if the value
// was never seen during training.
func (e Encoder) Encode(raw string) (int, bool) {
	code, ok := e.classes[raw]
	if !ok {
		return fallbackCode, false
	}
	return code, true
}

func (e Encoder) Size() int { return len(e.classes) }

func NewEncoderSet(vocabularies map[string]map[string]int) *EncoderSet {
	encoders := make(map[string]Encoder, len(vocabularies))
	for feature, classes := range vocabularies {
		encoders[feature] = NewEncoder(classes)
	}
	return &EncoderSet{encoders: encoders}
}

// Encode encodes a raw categorical value for the named feature. Unseen
// values and missing encoders both yield the fallback code; a prediction
// request is never aborted over an unknown category.
func (s *EncoderSet) Encode(feature, raw string) int {
	enc, ok := s.encoders[feature]
	if !ok {
		atomic.AddInt64(&s.unseen, 1)
		return fallbackCode
	}
	code, seen := enc.Encode(raw)
	if !seen {
		atomic.AddInt64(&s.unseen, 1)
	}
	return code
}

func (s *EncoderSet) Has(feature string) bool {
	_, ok := s.encoders[feature]
	return ok
}

// UnseenCount reports how many encodings fell back to code 0 since load.
func (s *EncoderSet) UnseenCount() int64 {
	return atomic.LoadInt64(&s.unseen)
}
