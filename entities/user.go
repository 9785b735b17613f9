package entities

import (
	"github.com/google/uuid"
)

type User struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	Email     string    `gorm:"size:254;not null;uniqueIndex:idx_users_email" json:"email"`
	Username  string    `gorm:"size:150;not null;uniqueIndex:idx_users_username" json:"username"`
	FirstName string    `gorm:"size:150;not null" json:"first_name"`
	LastName  string    `gorm:"size:150;not null" json:"last_name"`
	Password  string    `gorm:"not null" json:"-"`

	Recipes []*Recipe `gorm:"foreignKey:AuthorID"`
	Timestamp
}

type Subscription struct {
	ID             uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	SubscriberID   uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_subscriptions_pair" json:"subscriber_id"`
	FollowedUserID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_subscriptions_pair;index" json:"followed_user_id"`

	Subscriber   *User `gorm:"foreignKey:SubscriberID;constraint:OnDelete:CASCADE"`
	FollowedUser *User `gorm:"foreignKey:FollowedUserID;constraint:OnDelete:CASCADE"`
	Timestamp
}
