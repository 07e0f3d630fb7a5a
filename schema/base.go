package schema

// Base is a base schema for struct payloads. Embed it to opt a struct into
// the Schema contract, concrete types usually override String with their
// JSON form.
type Base struct{}

// String implements Schema interface
func (r Base) String() string {
	return ""
}
