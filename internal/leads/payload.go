package leads

import (
	"encoding/json"

	"github.com/shopspring/decimal"

	"github.com/ovenmade/ovenmade-backend/internal/pricing"
	"github.com/ovenmade/ovenmade-backend/pkg/enums"
	pkgerrors "github.com/ovenmade/ovenmade-backend/pkg/errors"
)

// Payload kinds. The kind is decided once when the submission is decoded and
// stored alongside the raw payload; readers trust the stored kind.
const (
	PayloadKindFastQuote  = "fast_quote"
	PayloadKindCalculator = "calculator"
)

// envelope is the wire shape of a calculator submission: an explicit kind
// plus the kind-specific body.
type envelope struct {
	Kind string          `json:"kind"`
	Data json.RawMessage `json:"data"`
}

// FastQuoteSelection is the short public form: one cake, a headcount, no
// itemized extras.
type FastQuoteSelection struct {
	Size      string `json:"size" validate:"required"`
	Shape     string `json:"shape"`
	Flavor    string `json:"flavor"`
	Frosting  string `json:"frosting"`
	Attendees int    `json:"attendees"`
}

// LeadPayload is the decoded tagged union of the two calculator forms.
// Exactly one of FastQuote and Calculator is set, matching Kind.
type LeadPayload struct {
	Kind       string
	FastQuote  *FastQuoteSelection
	Calculator *pricing.Build
}

// DecodePayload discriminates and decodes a raw submission. Unknown kinds
// and malformed bodies are validation errors; nothing downstream ever
// re-inspects the raw bytes.
func DecodePayload(raw json.RawMessage) (LeadPayload, error) {
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return LeadPayload{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "malformed payload")
	}

	switch env.Kind {
	case PayloadKindFastQuote:
		var selection FastQuoteSelection
		if err := json.Unmarshal(env.Data, &selection); err != nil {
			return LeadPayload{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "malformed fast quote payload")
		}
		if selection.Size == "" {
			return LeadPayload{}, pkgerrors.New(pkgerrors.CodeValidation, "fast quote requires a size")
		}
		return LeadPayload{Kind: PayloadKindFastQuote, FastQuote: &selection}, nil
	case PayloadKindCalculator:
		var build pricing.Build
		if err := json.Unmarshal(env.Data, &build); err != nil {
			return LeadPayload{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "malformed calculator payload")
		}
		return LeadPayload{Kind: PayloadKindCalculator, Calculator: &build}, nil
	case "":
		return LeadPayload{}, pkgerrors.New(pkgerrors.CodeValidation, "payload kind required")
	default:
		return LeadPayload{}, pkgerrors.New(pkgerrors.CodeValidation, "unknown payload kind: "+env.Kind)
	}
}

// Build converts the decoded payload into a priceable build. A fast quote
// becomes a single-tier cake build.
func (p LeadPayload) Build() pricing.Build {
	switch p.Kind {
	case PayloadKindFastQuote:
		selection := p.FastQuote
		build := pricing.Build{
			Category: enums.BuildCategoryCake,
			Tiers: []pricing.Tier{{
				Size:     selection.Size,
				Shape:    selection.Shape,
				Flavor:   selection.Flavor,
				Frosting: selection.Frosting,
			}},
		}
		if selection.Attendees > 0 {
			attendees := selection.Attendees
			build.Addons = append(build.Addons, pricing.Addon{
				Key:       "per_person_serving",
				Quantity:  decimal.NewFromInt(int64(attendees)),
				Attendees: &attendees,
			})
		}
		return build
	case PayloadKindCalculator:
		return *p.Calculator
	default:
		return pricing.Build{}
	}
}
