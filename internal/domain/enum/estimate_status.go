package enum

import (
	"database/sql/driver"
	"encoding/json"
)

// EstimateStatus tracks a quote sent to a client
type EstimateStatus int

const (
	EstimateStatusDraft EstimateStatus = iota
	EstimateStatusSent
	EstimateStatusAccepted
	EstimateStatusDeclined
)

var estimateStatusNames = []string{"DRAFT", "SENT", "ACCEPTED", "DECLINED"}

func (s EstimateStatus) String() string {
	return nameOf(estimateStatusNames, int(s))
}

// IsValid reports whether s is a declared value
func (s EstimateStatus) IsValid() bool {
	return s >= 0 && int(s) < len(estimateStatusNames)
}

// ParseEstimateStatus parses a name such as "DRAFT"
func ParseEstimateStatus(s string) (EstimateStatus, error) {
	i, err := parseName("estimate status", estimateStatusNames, s)
	return EstimateStatus(i), err
}

func (s EstimateStatus) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

func (s *EstimateStatus) UnmarshalJSON(data []byte) error {
	i, err := unmarshalName("estimate status", estimateStatusNames, data)
	if err != nil {
		return err
	}
	*s = EstimateStatus(i)
	return nil
}

func (s EstimateStatus) Value() (driver.Value, error) {
	return int64(s), nil
}

func (s *EstimateStatus) Scan(value interface{}) error {
	i, err := scanInt(value)
	if err != nil {
		return err
	}
	*s = EstimateStatus(i)
	return nil
}
