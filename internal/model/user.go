package model

type UserRole string

const (
	Admin  UserRole = "admin"
	Player UserRole = "player"
)

// swagger:model User
type User struct {
	BaseModel
	Username  string   `gorm:"size:100;unique;not null" json:"username"`
	Email     string   `gorm:"size:100;unique;not null" json:"email"`
	Password  string   `gorm:"size:100;not null" json:"-"`
	FirstName string   `gorm:"size:100" json:"firstName"`
	LastName  string   `gorm:"size:100" json:"lastName"`
	Role      UserRole `gorm:"type:enum('admin','player');default:'player'" json:"role"`
	Age       *int     `json:"age,omitempty"`
}

func (User) TableName() string {
	return "users"
}
