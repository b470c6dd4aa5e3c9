package article

// BodyState records whether body text has started in the current article.
type BodyState int

const (
	BeforeBody BodyState = iota
	AfterBody
)

func (s BodyState) String() string {
	if s == AfterBody {
		return "AFTER_BODY"
	}
	return "BEFORE_BODY"
}

// Classify decides the class of a relevant line and returns the state for
// the next line. Only font family, weight and state matter:
//
//	serif only             → BODY
//	sans only, bold        → INTRO before body, SUBHEADING after
//	sans only, regular     → BODY
//	mixed or unrecognized  → BODY
//
// The first BODY line moves the state to AfterBody, which is final.
func Classify(l PageLine, state BodyState) (Class, BodyState) {
	class := ClassBody
	if l.Sans && !l.Serif && l.Bold {
		class = ClassIntro
		if state == AfterBody {
			class = ClassSubheading
		}
	}
	if class == ClassBody {
		state = AfterBody
	}
	return class, state
}
