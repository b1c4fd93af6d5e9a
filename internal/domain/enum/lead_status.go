package enum

import (
	"database/sql/driver"
	"encoding/json"
)

// LeadStatus tracks a prospect through the sales pipeline
type LeadStatus int

const (
	LeadStatusNew LeadStatus = iota
	LeadStatusContacted
	LeadStatusQualified
	LeadStatusConverted
	LeadStatusLost
)

var leadStatusNames = []string{"NEW", "CONTACTED", "QUALIFIED", "CONVERTED", "LOST"}

func (s LeadStatus) String() string {
	return nameOf(leadStatusNames, int(s))
}

// IsValid reports whether s is a declared value
func (s LeadStatus) IsValid() bool {
	return s >= 0 && int(s) < len(leadStatusNames)
}

// ParseLeadStatus parses a name such as "NEW"
func ParseLeadStatus(s string) (LeadStatus, error) {
	i, err := parseName("lead status", leadStatusNames, s)
	return LeadStatus(i), err
}

func (s LeadStatus) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

func (s *LeadStatus) UnmarshalJSON(data []byte) error {
	i, err := unmarshalName("lead status", leadStatusNames, data)
	if err != nil {
		return err
	}
	*s = LeadStatus(i)
	return nil
}

func (s LeadStatus) Value() (driver.Value, error) {
	return int64(s), nil
}

func (s *LeadStatus) Scan(value interface{}) error {
	i, err := scanInt(value)
	if err != nil {
		return err
	}
	*s = LeadStatus(i)
	return nil
}
