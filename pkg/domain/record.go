package domain

// RawRecord is one flat visit record as stored by the acquisition stage.
// Keys follow RecordColumns; values are whatever the store produced (strings,
// numbers, booleans or nil) and any key may be absent.
type RawRecord map[string]any

// Get returns the value stored under key, or nil when absent.
func (r RawRecord) Get(key string) any {
	if r == nil {
		return nil
	}
	return r[key]
}
