package ascapi

import (
	"bytes"
	"encoding/json"
	"time"

	"catalog-sync/core/utils"
)

// Resource is any catalog object exchanged with the API.
type Resource struct {
	Type          string                  `json:"type"`
	ID            string                  `json:"id,omitempty"`
	Attributes    map[string]any          `json:"attributes,omitempty"`
	Relationships map[string]Relationship `json:"relationships,omitempty"`
}

// String returns a string attribute, or "" when absent.
func (r Resource) String(name string) string {
	v, ok := r.Attributes[name]
	if !ok || v == nil {
		return ""
	}
	return utils.ToString(v)
}

// Int returns an integer attribute, or 0 when absent.
func (r Resource) Int(name string) int64 {
	return utils.ToInt64(r.Attributes[name])
}

// Bool returns a boolean attribute, or false when absent.
func (r Resource) Bool(name string) bool {
	return utils.ToBool(r.Attributes[name])
}

// Time parses an RFC 3339 timestamp attribute. Zero when absent or malformed.
func (r Resource) Time(name string) time.Time {
	t, err := time.Parse(time.RFC3339, r.String(name))
	if err != nil {
		return time.Time{}
	}
	return t
}

// Related returns the first related identifier for rel, if any.
func (r Resource) Related(rel string) (Identifier, bool) {
	ids := r.Relationships[rel].IDs()
	if len(ids) == 0 {
		return Identifier{}, false
	}
	return ids[0], true
}

// DecodeAttributes copies the attribute map into out via JSON.
func (r Resource) DecodeAttributes(out any) error {
	raw, err := json.Marshal(r.Attributes)
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, out)
}

// Identifier is a resource linkage (type + id).
type Identifier struct {
	Type string `json:"type"`
	ID   string `json:"id"`
}

// Relationship holds raw linkage data, which is either one identifier or a list.
type Relationship struct {
	Data json.RawMessage `json:"data,omitempty"`
}

// One builds a to-one relationship.
func One(typ, id string) Relationship {
	raw, _ := json.Marshal(Identifier{Type: typ, ID: id})
	return Relationship{Data: raw}
}

// Many builds a to-many relationship.
func Many(typ string, ids ...string) Relationship {
	list := make([]Identifier, 0, len(ids))
	for _, id := range ids {
		list = append(list, Identifier{Type: typ, ID: id})
	}
	raw, _ := json.Marshal(list)
	return Relationship{Data: raw}
}

// IDs decodes the linkage regardless of cardinality. Null or missing data yields nil.
func (rel Relationship) IDs() []Identifier {
	data := bytes.TrimSpace(rel.Data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil
	}
	if data[0] == '[' {
		var list []Identifier
		if err := json.Unmarshal(data, &list); err != nil {
			return nil
		}
		return list
	}
	var one Identifier
	if err := json.Unmarshal(data, &one); err != nil {
		return nil
	}
	return []Identifier{one}
}

// document is the top-level JSON:API envelope for responses.
type document struct {
	Data  json.RawMessage `json:"data"`
	Links struct {
		Next string `json:"next,omitempty"`
	} `json:"links"`
}

// payload is the top-level envelope for create/update requests.
type payload struct {
	Data     any        `json:"data"`
	Included []Resource `json:"included,omitempty"`
}

// PricePoint is a backend-defined price for one territory.
type PricePoint struct {
	ID            string
	Territory     string
	CustomerPrice string
	Proceeds      string
	// Tier is the legacy price tier, set only on app price points.
	Tier string
}

func pricePointFrom(r Resource) PricePoint {
	pp := PricePoint{
		ID:            r.ID,
		CustomerPrice: r.String("customerPrice"),
		Proceeds:      r.String("proceeds"),
		Tier:          r.String("priceTier"),
	}
	if t, ok := r.Related("territory"); ok {
		pp.Territory = t.ID
	}
	return pp
}

// AppVersion is an App Store version of the app.
type AppVersion struct {
	ID            string
	VersionString string
	State         string
	CreatedDate   time.Time
}

func appVersionFrom(r Resource) AppVersion {
	state := r.String("appStoreState")
	if state == "" {
		state = r.String("appVersionState")
	}
	return AppVersion{
		ID:            r.ID,
		VersionString: r.String("versionString"),
		State:         state,
		CreatedDate:   r.Time("createdDate"),
	}
}

// Build is an uploaded binary.
type Build struct {
	ID              string
	Version         string
	ProcessingState string
	UploadedDate    time.Time
}

func buildFrom(r Resource) Build {
	return Build{
		ID:              r.ID,
		Version:         r.String("version"),
		ProcessingState: r.String("processingState"),
		UploadedDate:    r.Time("uploadedDate"),
	}
}

// UploadOperation is one pre-authorized chunk destination returned by a reservation.
type UploadOperation struct {
	Method         string          `json:"method"`
	URL            string          `json:"url"`
	Offset         int64           `json:"offset"`
	Length         int64           `json:"length"`
	RequestHeaders []RequestHeader `json:"requestHeaders"`
}

// RequestHeader is a header the upload destination requires.
type RequestHeader struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}
