package guidance

import (
	"math"
	"strconv"
	"unicode"
	"unicode/utf8"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/lintang-b-s/navigatorx-turnbyturn/pkg/util"
)

var englishMessages = map[string]string{
	"start":             "Follow {0} for {1}",
	"continue":          "Follow {0} for {1}",
	"turn_sharp_left":   "Turn sharp left onto {0}",
	"turn_left":         "Turn left onto {0}",
	"turn_slight_left":  "Turn slight left onto {0}",
	"turn_slight_right": "Turn slight right onto {0}",
	"turn_right":        "Turn right onto {0}",
	"turn_sharp_right":  "Turn sharp right onto {0}",
	"u_turn":            "Make a U-turn onto {0}",
	"roundabout":        "At the roundabout, take exit {0} onto {1}",
	"arrive":            "Arrive at your destination",
	"in_distance":       "In {0}, {1}",
	"unnamed":           "the road",
	"meters":            "{0} m",
	"kilometers":        "{0} km",
}

// Messages. localized instruction phrases and distance formatting
type Messages struct {
	trans ut.Translator
}

// NewMessages. only the "en" locale ships with the core
func NewMessages(locale string) (*Messages, error) {
	english := en.New()
	uni := ut.New(english, english)
	trans, found := uni.GetTranslator(locale)
	if !found {
		return nil, util.WrapErrorf(nil, util.ErrBadParamInput, "unsupported locale %q", locale)
	}
	for key, text := range englishMessages {
		if err := trans.Add(key, text, false); err != nil {
			return nil, util.WrapErrorf(err, util.ErrInternalServerError, "add translation %s", key)
		}
	}
	return &Messages{trans: trans}, nil
}

func (ms *Messages) t(key string, params ...string) string {
	text, err := ms.trans.T(key, params...)
	if err != nil {
		return key
	}
	return text
}

func (ms *Messages) streetName(name string) string {
	if name == "" {
		return ms.t("unnamed")
	}
	return name
}

// FormatDistance. below 1 km rounded to 10 m, otherwise km with one decimal
func (ms *Messages) FormatDistance(meters float64) string {
	if math.IsNaN(meters) || meters < 0 {
		meters = 0
	}
	rounded := math.Round(meters/10) * 10
	if rounded < 1000 {
		return ms.t("meters", ms.trans.FmtNumber(rounded, 0))
	}
	return ms.t("kilometers", ms.trans.FmtNumber(meters/1000, 1))
}

// Describe. full sentence for ins
func (ms *Messages) Describe(ins *Instruction) string {
	street := ms.streetName(ins.StreetName)
	switch ins.Sign {
	case START, CONTINUE_ON_STREET:
		return ms.t(ins.Sign.String(), street, ms.FormatDistance(ins.DistanceMeters))
	case USE_ROUNDABOUT:
		return ms.t("roundabout", strconv.Itoa(ins.ExitNumber), street)
	case FINISH:
		return ms.t("arrive")
	default:
		return ms.t(ins.Sign.String(), street)
	}
}

// InDistance. "In 200 m, turn right onto ..."
func (ms *Messages) InDistance(meters float64, text string) string {
	return ms.t("in_distance", ms.FormatDistance(meters), lowerFirst(text))
}

func lowerFirst(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToLower(r)) + s[size:]
}
