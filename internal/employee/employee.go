package employee

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// Employee is the main employee record entity.
type Employee struct {
	ID          int64      `json:"id" gorm:"primaryKey"`
	Name        string     `json:"name" gorm:"not null"`
	Email       string     `json:"email" gorm:"uniqueIndex;not null"`
	Mobile      string     `json:"mobile" gorm:"not null"`
	Designation string     `json:"designation" gorm:"not null"`
	Gender      string     `json:"gender" gorm:"not null"`
	Course      CourseList `json:"course" gorm:"type:text;not null"`
	Image       *string    `json:"image,omitempty"`
	CreatedAt   time.Time  `json:"created_at" gorm:"column:created_at"`
	IsActive    bool       `json:"is_active" gorm:"column:is_active;default:true"`
}

// TableName returns the table name for GORM
func (Employee) TableName() string {
	return "employees"
}

// Enumerated field values.
var (
	Designations = []string{"HR", "Manager", "Sales"}
	Genders      = []string{"M", "F"}
	CourseCodes  = []string{"MCA", "BCA", "BSC"}
)

// CourseList is an ordered set of course codes. It is persisted as a JSON
// text column; insertion order is preserved for display.
type CourseList []string

func (c CourseList) Value() (driver.Value, error) {
	if c == nil {
		return "[]", nil
	}
	b, err := json.Marshal(c)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (c *CourseList) Scan(src interface{}) error {
	switch v := src.(type) {
	case nil:
		*c = nil
		return nil
	case []byte:
		return json.Unmarshal(v, c)
	case string:
		return json.Unmarshal([]byte(v), c)
	default:
		return fmt.Errorf("cannot scan %T into CourseList", src)
	}
}

// Contains reports whether the course code is already in the list.
func (c CourseList) Contains(code string) bool {
	for _, cc := range c {
		if cc == code {
			return true
		}
	}
	return false
}

// Toggle returns a new list with the code added if absent or removed if
// present. The receiver is never mutated.
func (c CourseList) Toggle(code string) CourseList {
	if c.Contains(code) {
		out := make(CourseList, 0, len(c)-1)
		for _, cc := range c {
			if cc != code {
				out = append(out, cc)
			}
		}
		return out
	}
	out := make(CourseList, len(c), len(c)+1)
	copy(out, c)
	return append(out, code)
}

// ParseCourseList decodes the serialized course field as it arrives in the
// multipart create form.
func ParseCourseList(raw string) (CourseList, error) {
	var courses CourseList
	if err := json.Unmarshal([]byte(raw), &courses); err != nil {
		return nil, errors.New("invalid format for course field")
	}
	return courses, nil
}

func isOneOf(value string, allowed []string) bool {
	for _, a := range allowed {
		if value == a {
			return true
		}
	}
	return false
}
