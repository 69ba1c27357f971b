package model

type User struct {
	BaseModel        // 包括 ID, CreatedAt, UpdatedAt, DeletedAt
	Username  string `gorm:"uniqueIndex;size:64;not null"`
	Email     string `gorm:"uniqueIndex;size:128;not null"`
	FullName  string `gorm:"size:128;not null"`
	Password  string `gorm:"not null"`
	AvatarURL string
	CoverURL  string
	Bio       string `gorm:"type:text"`
	Verified  bool   `gorm:"default:false"`
	// 当前有效的refresh token，退出登录时清空，换发时轮转
	RefreshToken string `gorm:"type:text"`
}

// Social 频道主页上展示的外部链接，一个用户一行，重复提交走覆盖
type Social struct {
	BaseModel
	UserID    uint64 `gorm:"uniqueIndex;not null"`
	Facebook  string
	X         string
	Instagram string
	Linkedin  string
	Github    string
	Website   string
}

func (Social) TableName() string {
	return "socials"
}
