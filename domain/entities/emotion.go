package entities

// EmotionChannels is the arity of the full emotion vector.
const EmotionChannels = 8

// LegacyEmotionChannels is the arity of the reduced emotion vector exposed
// by the older runtime ABI.
const LegacyEmotionChannels = 3

// EmotionVector holds the eight emotion channels of an agent. Channel order
// is fixed by the runtime: joy, trust, fear, surprise, sadness, disgust,
// anger, anticipation. Values are nominally bounded to [-1, 1] by the
// runtime's convention; the SDK forwards them without validation.
type EmotionVector struct {
	Joy          float32 `json:"joy"`
	Trust        float32 `json:"trust"`
	Fear         float32 `json:"fear"`
	Surprise     float32 `json:"surprise"`
	Sadness      float32 `json:"sadness"`
	Disgust      float32 `json:"disgust"`
	Anger        float32 `json:"anger"`
	Anticipation float32 `json:"anticipation"`
}

// Channels returns the vector in the runtime's fixed channel order.
func (v EmotionVector) Channels() [EmotionChannels]float32 {
	return [EmotionChannels]float32{
		v.Joy, v.Trust, v.Fear, v.Surprise,
		v.Sadness, v.Disgust, v.Anger, v.Anticipation,
	}
}

// EmotionVectorFromChannels builds a vector from the runtime's fixed
// channel order.
func EmotionVectorFromChannels(ch [EmotionChannels]float32) EmotionVector {
	return EmotionVector{
		Joy:          ch[0],
		Trust:        ch[1],
		Fear:         ch[2],
		Surprise:     ch[3],
		Sadness:      ch[4],
		Disgust:      ch[5],
		Anger:        ch[6],
		Anticipation: ch[7],
	}
}

// LegacyEmotionVector holds the three channels of the older runtime ABI:
// joy, anger, fear, in that order. It is a distinct wire shape, never a
// projection the SDK derives from EmotionVector.
type LegacyEmotionVector struct {
	Joy   float32 `json:"joy"`
	Anger float32 `json:"anger"`
	Fear  float32 `json:"fear"`
}
