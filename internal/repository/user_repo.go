package repository

import (
	"VidTube/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// 用户仓库接口：插入、各种维度的查找、资料保存、refresh token更新、社交链接覆盖写
type UserRepository interface {
	Create(user *model.User) error
	FindByID(userID uint64) (*model.User, error)
	FindByUsername(username string) (*model.User, error)
	FindByEmail(email string) (*model.User, error)
	FindByUsernameOrEmail(username, email string) (*model.User, error)
	Save(user *model.User) error
	UpdateRefreshToken(userID uint64, token string) error
	// 按用户名/昵称模糊搜索频道，首页搜索用
	SearchChannels(keyword string, limit int) ([]model.User, error)
	UpsertSocial(social *model.Social) error
	FindSocial(userID uint64) (*model.Social, error)
}

type userRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(user *model.User) error {
	return r.db.Create(user).Error
}

func (r *userRepository) FindByID(userID uint64) (*model.User, error) {
	var result model.User
	err := r.db.First(&result, userID).Error
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func (r *userRepository) FindByUsername(username string) (*model.User, error) {
	var result model.User
	err := r.db.Where("username = ?", username).First(&result).Error
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func (r *userRepository) FindByEmail(email string) (*model.User, error) {
	var result model.User
	err := r.db.Where("email = ?", email).First(&result).Error
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// 登录时用户名和邮箱哪个传了用哪个，都传了满足其一即可
func (r *userRepository) FindByUsernameOrEmail(username, email string) (*model.User, error) {
	var result model.User
	err := r.db.Where("username = ? OR email = ?", username, email).First(&result).Error
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func (r *userRepository) Save(user *model.User) error {
	return r.db.Save(user).Error
}

func (r *userRepository) UpdateRefreshToken(userID uint64, token string) error {
	return r.db.Model(&model.User{}).Where("id = ?", userID).Update("refresh_token", token).Error
}

func (r *userRepository) SearchChannels(keyword string, limit int) ([]model.User, error) {
	var users []model.User
	pattern := "%" + keyword + "%"
	err := r.db.
		Where("username LIKE ? OR full_name LIKE ?", pattern, pattern).
		Limit(limit).
		Find(&users).Error
	return users, err
}

// UpsertSocial 有则更新无则插入，靠user_id的唯一索引做冲突判断
func (r *userRepository) UpsertSocial(social *model.Social) error {
	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		UpdateAll: true,
	}).Create(social).Error
}

func (r *userRepository) FindSocial(userID uint64) (*model.Social, error) {
	var result model.Social
	err := r.db.Where("user_id = ?", userID).First(&result).Error
	if err != nil {
		return nil, err
	}
	return &result, nil
}
