package enum

import (
	"database/sql/driver"
	"encoding/json"
)

// JobStatus is the lifecycle state of a cleaning job
type JobStatus int

const (
	JobStatusScheduled JobStatus = iota
	JobStatusInProgress
	JobStatusCompleted
	JobStatusCancelled
)

var jobStatusNames = []string{"SCHEDULED", "IN_PROGRESS", "COMPLETED", "CANCELLED"}

func (s JobStatus) String() string {
	return nameOf(jobStatusNames, int(s))
}

// IsValid reports whether s is a declared value
func (s JobStatus) IsValid() bool {
	return s >= 0 && int(s) < len(jobStatusNames)
}

// ParseJobStatus parses a name such as "SCHEDULED"
func ParseJobStatus(s string) (JobStatus, error) {
	i, err := parseName("job status", jobStatusNames, s)
	return JobStatus(i), err
}

func (s JobStatus) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

func (s *JobStatus) UnmarshalJSON(data []byte) error {
	i, err := unmarshalName("job status", jobStatusNames, data)
	if err != nil {
		return err
	}
	*s = JobStatus(i)
	return nil
}

func (s JobStatus) Value() (driver.Value, error) {
	return int64(s), nil
}

func (s *JobStatus) Scan(value interface{}) error {
	i, err := scanInt(value)
	if err != nil {
		return err
	}
	*s = JobStatus(i)
	return nil
}
