// Package fieldcodec provides field-level transforms applied while decoding
// JSON or YAML documents into typed records, plus validation and OpenAPI
// schema generation for the same records.
//
// Bind a transform to a field by implementing [Ruler]:
//
//	type Contact struct {
//	    Phone   string `json:"phone"`
//	    Email   string `json:"email"`
//	    Age     int    `json:"age"`
//	    Opt     *uint8 `json:"opt"`
//	    Profile Profile `json:"profile"`
//	}
//
//	func (c *Contact) Rules() []*FieldRules {
//	    return []*FieldRules{
//	        Transform(&c.Phone, Phone),
//	        Transform(&c.Email, Email, Required),
//	        Transform(&c.Age, FromString(strconv.Atoi)),
//	        Transform(&c.Opt, FromOption(BoolTo[uint8])),
//	        Transform(&c.Profile, EmbeddedJSON[Profile]()),
//	    }
//	}
//
// Then decode with a single call:
//
//	err := UnmarshalJSON(body, &contact)
//
// Each transform receives the raw field [Value] and either returns the typed
// value or an *[Error] whose [Kind] says why it failed; the first failure
// aborts the whole record. [UnmarshalAndValidate] and [DecodeAndValidate]
// additionally normalize and run the validation rules.
//
// The string validators ([NormalizePhone], [ValidatePhone], [ValidateEmail],
// [ValidateURL], [ValidateCreditCard], [PercentDecode]) are usable on their
// own.
package fieldcodec
