package pixel

// CaretStyle selects the text-input cursor shape. Values above CaretNone
// line up with DECSCUSR parameters 1-6.
type CaretStyle uint8

const (
	CaretNone CaretStyle = iota
	CaretBlinkingBlock
	CaretSteadyBlock
	CaretBlinkingUnderline
	CaretSteadyUnderline
	CaretBlinkingBar
	CaretSteadyBar
)
