package storage

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrMalformed is returned when decrypted store contents are not a valid record set
var ErrMalformed = errors.New("malformed record set")

// Record is one name/password pair. Name is the lookup key.
type Record struct {
	Name     string `json:"name"`
	Password string `json:"password"`
}

// RecordSet is the decrypted content of the store.
// Name uniqueness is enforced by callers, not by the set.
type RecordSet struct {
	Records []Record `json:"records"`
}

// NewRecordSet creates an empty record set
func NewRecordSet() *RecordSet {
	return &RecordSet{
		Records: make([]Record, 0),
	}
}

// Find finds a record by name
func (s *RecordSet) Find(name string) (Record, bool) {
	for _, r := range s.Records {
		if r.Name == name {
			return r, true
		}
	}
	return Record{}, false
}

// Contains reports whether a record with the given name exists
func (s *RecordSet) Contains(name string) bool {
	_, ok := s.Find(name)
	return ok
}

// Insert appends a record. The caller must have checked !Contains(record.Name).
func (s *RecordSet) Insert(record Record) {
	s.Records = append(s.Records, record)
}

// Replace removes any record with the given name, then inserts record.
// The replaced record moves to the end of the set.
func (s *RecordSet) Replace(name string, record Record) {
	s.Remove(name)
	s.Insert(record)
}

// Remove removes every record with the given name.
// Removing an absent name is a no-op and returns false.
func (s *RecordSet) Remove(name string) bool {
	kept := s.Records[:0]
	removed := false
	for _, r := range s.Records {
		if r.Name == name {
			removed = true
			continue
		}
		kept = append(kept, r)
	}
	// Drop references to removed secrets held past the new length
	clear(s.Records[len(kept):])
	s.Records = kept
	return removed
}

// Names returns all record names in set order
func (s *RecordSet) Names() []string {
	names := make([]string, len(s.Records))
	for i, r := range s.Records {
		names[i] = r.Name
	}
	return names
}

// Len returns the number of records
func (s *RecordSet) Len() int {
	return len(s.Records)
}

// Marshal serializes the record set to JSON
func (s *RecordSet) Marshal() ([]byte, error) {
	records := s.Records
	if records == nil {
		records = make([]Record, 0)
	}
	return json.Marshal(RecordSet{Records: records})
}

// UnmarshalRecordSet parses a record set produced by Marshal.
// The records field and each record's fields are required.
func UnmarshalRecordSet(data []byte) (*RecordSet, error) {
	var raw struct {
		Records *[]struct {
			Name     *string `json:"name"`
			Password *string `json:"password"`
		} `json:"records"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if raw.Records == nil {
		return nil, fmt.Errorf("%w: missing records field", ErrMalformed)
	}

	set := &RecordSet{Records: make([]Record, 0, len(*raw.Records))}
	for i, r := range *raw.Records {
		if r.Name == nil || r.Password == nil {
			return nil, fmt.Errorf("%w: record %d is missing name or password", ErrMalformed, i)
		}
		set.Records = append(set.Records, Record{Name: *r.Name, Password: *r.Password})
	}
	return set, nil
}
