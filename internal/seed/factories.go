// Package seed provides helpers to create demo and test data for the
// application database. These helpers are intended for development and
// testing only.
package seed

import (
	"fmt"
	"math/rand"
	"time"

	"yatube/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// DemoPassword is the password shared by all seeded users.
const DemoPassword = "Password-123-Demo!"

// Factory builds domain entities and persists them to the database.
type Factory struct {
	db  *gorm.DB
	rnd *rand.Rand
}

// NewFactory creates a Factory bound to the provided Gorm DB.
func NewFactory(db *gorm.DB) *Factory {
	gofakeit.Seed(time.Now().UnixNano())
	return &Factory{
		db:  db,
		rnd: rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// CreateUser constructs and persists a sample user. Optional override
// functions may modify the generated user before saving.
func (f *Factory) CreateUser(overrides ...func(*models.User)) (*models.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(DemoPassword), bcrypt.MinCost)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Username: fmt.Sprintf("%s%d", gofakeit.Username(), gofakeit.Number(100, 999)),
		Email:    gofakeit.Email(),
		Password: string(hash),
	}
	for _, override := range overrides {
		override(user)
	}

	if err := f.db.Create(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

// CreateGroup constructs and persists a sample group.
func (f *Factory) CreateGroup(overrides ...func(*models.Group)) (*models.Group, error) {
	noun := gofakeit.NounCommon()
	group := &models.Group{
		Title:       gofakeit.BookTitle(),
		Slug:        fmt.Sprintf("%s-%d", noun, gofakeit.Number(10, 99)),
		Description: gofakeit.Sentence(12),
	}
	for _, override := range overrides {
		override(group)
	}

	if err := f.db.Create(group).Error; err != nil {
		return nil, err
	}
	return group, nil
}

// CreatePost constructs and persists a sample post for the given author.
// A nil group makes a groupless post.
func (f *Factory) CreatePost(author *models.User, group *models.Group, overrides ...func(*models.Post)) (*models.Post, error) {
	post := &models.Post{
		AuthorID:  author.ID,
		Text:      gofakeit.Paragraph(1, 3, 8, "\n"),
		CreatedAt: f.pastTimestamp(90),
	}
	if group != nil {
		post.GroupID = &group.ID
	}
	if f.rnd.Intn(4) == 0 {
		post.ImageURL = fmt.Sprintf("https://picsum.photos/seed/%s/800/600", gofakeit.UUID())
	}
	for _, override := range overrides {
		override(post)
	}

	if err := f.db.Create(post).Error; err != nil {
		return nil, err
	}
	return post, nil
}

// CreateComment constructs and persists a comment on the post.
func (f *Factory) CreateComment(author *models.User, post *models.Post) (*models.Comment, error) {
	comment := &models.Comment{
		PostID:    post.ID,
		AuthorID:  author.ID,
		Text:      gofakeit.Sentence(f.rnd.Intn(15) + 3),
		CreatedAt: post.CreatedAt.Add(time.Duration(f.rnd.Intn(72)) * time.Hour),
	}

	if err := f.db.Create(comment).Error; err != nil {
		return nil, err
	}
	return comment, nil
}

// CreateFollow persists a follow edge. Self-follows and duplicates are
// rejected by the schema; callers should avoid them.
func (f *Factory) CreateFollow(follower, author *models.User) (*models.Follow, error) {
	follow := &models.Follow{
		FollowerID: follower.ID,
		AuthorID:   author.ID,
	}

	if err := f.db.Create(follow).Error; err != nil {
		return nil, err
	}
	return follow, nil
}

// CreateChatMessage persists a chat message in the group's log.
func (f *Factory) CreateChatMessage(author *models.User, group *models.Group) (*models.ChatMessage, error) {
	msg := &models.ChatMessage{
		GroupID:   group.ID,
		AuthorID:  author.ID,
		Text:      gofakeit.HipsterSentence(f.rnd.Intn(10) + 2),
		CreatedAt: f.pastTimestamp(7),
	}

	if err := f.db.Create(msg).Error; err != nil {
		return nil, err
	}
	return msg, nil
}

// pastTimestamp returns a time up to maxDays in the past, with sub-day jitter.
func (f *Factory) pastTimestamp(maxDays int) time.Time {
	daysBack := f.rnd.Intn(maxDays)
	hoursBack := f.rnd.Intn(24)
	minsBack := f.rnd.Intn(60)
	return time.Now().
		Add(-time.Duration(daysBack) * 24 * time.Hour).
		Add(-time.Duration(hoursBack) * time.Hour).
		Add(-time.Duration(minsBack) * time.Minute)
}
