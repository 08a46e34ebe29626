package professor

import (
	"encoding/json"
	"time"
)

const dateLayout = "2006-01-02"

// Positions a Professor may hold.
var Positions = []string{"교수", "부교수", "조교수", "전임강사"}

// A Professor is a row of the professor table.
type Professor struct {
	ID       int64     `gorm:"column:profno;primaryKey" json:"profno"`
	Name     string    `gorm:"column:name" json:"name"`
	UserID   string    `gorm:"column:userid" json:"userid"`
	Position string    `gorm:"column:position" json:"position"`
	Sal      int64     `gorm:"column:sal" json:"sal"`
	HireDate time.Time `gorm:"column:hiredate;type:date" json:"hiredate"`
	Comm     *int64    `gorm:"column:comm" json:"comm"`
	DeptNo   int64     `gorm:"column:deptno" json:"deptno"`
}

func (Professor) TableName() string { return "professor" }

// MarshalJSON renders HireDate as a date without time.
func (p Professor) MarshalJSON() ([]byte, error) {
	type alias Professor
	return json.Marshal(struct {
		alias
		HireDate string `json:"hiredate"`
	}{alias(p), p.HireDate.Format(dateLayout)})
}

// A Form holds the fields a client sends to create or update a Professor.
type Form struct {
	Name     string `schema:"name" json:"name" validate:"required,max=20" msg:"교수 이름을 20자 이내로 입력하세요."`
	UserID   string `schema:"userid" json:"userid" validate:"required,engnum,max=20" msg:"아이디는 20자 이내의 영문과 숫자로 입력하세요."`
	Position string `schema:"position" json:"position" validate:"required,oneof=교수 부교수 조교수 전임강사" msg:"직급을 선택하세요."`
	Sal      int64  `schema:"sal" json:"sal" validate:"required,min=1" msg:"급여를 입력하세요."`
	HireDate string `schema:"hiredate" json:"hiredate" validate:"required,datetime=2006-01-02" msg:"입사일을 yyyy-mm-dd 형식으로 입력하세요."`
	Comm     *int64 `schema:"comm" json:"comm" validate:"omitempty,min=0"`
	DeptNo   int64  `schema:"deptno" json:"deptno" validate:"required,min=1" msg:"학과번호를 입력하세요."`
}

// Professor builds the Professor f describes, with id.
// f must have been validated.
func (f Form) Professor(id int64) Professor {
	hired, _ := time.Parse(dateLayout, f.HireDate)

	return Professor{
		ID:       id,
		Name:     f.Name,
		UserID:   f.UserID,
		Position: f.Position,
		Sal:      f.Sal,
		HireDate: hired,
		Comm:     f.Comm,
		DeptNo:   f.DeptNo,
	}
}

// A Query filters and pages a listing of professors.
type Query struct {
	Keyword string
	Page    int64
	Rows    int64
}
