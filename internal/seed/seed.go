package seed

import (
	"fmt"
	"log"

	"yatube/internal/models"

	"gorm.io/gorm"
)

// Options configuration for the seeder.
type Options struct {
	NumUsers    int
	NumGroups   int
	NumPosts    int
	ShouldClean bool
}

// Seeder populates the database with demo data.
type Seeder struct {
	db      *gorm.DB
	factory *Factory
}

// NewSeeder creates a Seeder bound to the provided Gorm DB.
func NewSeeder(db *gorm.DB) *Seeder {
	return &Seeder{db: db, factory: NewFactory(db)}
}

// ClearAll deletes all seeded content. Delete order respects foreign keys on
// databases that do not cascade.
func (s *Seeder) ClearAll() error {
	tables := []any{
		&models.ChatMessage{},
		&models.Comment{},
		&models.Follow{},
		&models.Post{},
		&models.Group{},
		&models.User{},
	}
	for _, table := range tables {
		if err := s.db.Where("1 = 1").Delete(table).Error; err != nil {
			return fmt.Errorf("clear %T: %w", table, err)
		}
	}
	log.Println("Seeder: cleared existing data")
	return nil
}

// Seed populates users, groups, posts, comments, follows and chat messages.
func (s *Seeder) Seed(opts Options) error {
	if opts.ShouldClean {
		if err := s.ClearAll(); err != nil {
			return err
		}
	}

	users, err := s.seedUsers(opts.NumUsers)
	if err != nil {
		return fmt.Errorf("seed users: %w", err)
	}
	log.Printf("Seeder: %d users created", len(users))

	groups, err := s.seedGroups(opts.NumGroups)
	if err != nil {
		return fmt.Errorf("seed groups: %w", err)
	}
	log.Printf("Seeder: %d groups created", len(groups))

	posts, err := s.seedPosts(users, groups, opts.NumPosts)
	if err != nil {
		return fmt.Errorf("seed posts: %w", err)
	}
	log.Printf("Seeder: %d posts created", len(posts))

	comments, err := s.seedComments(users, posts)
	if err != nil {
		return fmt.Errorf("seed comments: %w", err)
	}
	log.Printf("Seeder: %d comments created", comments)

	follows, err := s.seedFollows(users)
	if err != nil {
		return fmt.Errorf("seed follows: %w", err)
	}
	log.Printf("Seeder: %d follow edges created", follows)

	messages, err := s.seedChatMessages(users, groups)
	if err != nil {
		return fmt.Errorf("seed chat messages: %w", err)
	}
	log.Printf("Seeder: %d chat messages created", messages)

	return nil
}

func (s *Seeder) seedUsers(n int) ([]*models.User, error) {
	users := make([]*models.User, 0, n+1)

	// A known admin for manual poking around.
	admin, err := s.factory.CreateUser(func(u *models.User) {
		u.Username = "admin"
		u.Email = "admin@example.com"
		u.IsAdmin = true
	})
	if err != nil {
		return nil, err
	}
	users = append(users, admin)

	for i := 0; i < n; i++ {
		user, err := s.factory.CreateUser()
		if err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	return users, nil
}

func (s *Seeder) seedGroups(n int) ([]*models.Group, error) {
	groups := make([]*models.Group, 0, n)
	for i := 0; i < n; i++ {
		group, err := s.factory.CreateGroup()
		if err != nil {
			return nil, err
		}
		groups = append(groups, group)
	}
	return groups, nil
}

func (s *Seeder) seedPosts(users []*models.User, groups []*models.Group, n int) ([]*models.Post, error) {
	posts := make([]*models.Post, 0, n)
	for i := 0; i < n; i++ {
		author := users[s.factory.rnd.Intn(len(users))]

		// Roughly a third of posts go without a group.
		var group *models.Group
		if len(groups) > 0 && s.factory.rnd.Intn(3) != 0 {
			group = groups[s.factory.rnd.Intn(len(groups))]
		}

		post, err := s.factory.CreatePost(author, group)
		if err != nil {
			return nil, err
		}
		posts = append(posts, post)
	}
	return posts, nil
}

func (s *Seeder) seedComments(users []*models.User, posts []*models.Post) (int, error) {
	created := 0
	for _, post := range posts {
		for i := s.factory.rnd.Intn(4); i > 0; i-- {
			author := users[s.factory.rnd.Intn(len(users))]
			if _, err := s.factory.CreateComment(author, post); err != nil {
				return created, err
			}
			created++
		}
	}
	return created, nil
}

func (s *Seeder) seedFollows(users []*models.User) (int, error) {
	created := 0
	for _, follower := range users {
		seen := map[uint]bool{follower.ID: true}
		for i := s.factory.rnd.Intn(5); i > 0; i-- {
			author := users[s.factory.rnd.Intn(len(users))]
			if seen[author.ID] {
				continue
			}
			seen[author.ID] = true
			if _, err := s.factory.CreateFollow(follower, author); err != nil {
				return created, err
			}
			created++
		}
	}
	return created, nil
}

func (s *Seeder) seedChatMessages(users []*models.User, groups []*models.Group) (int, error) {
	created := 0
	for _, group := range groups {
		for i := s.factory.rnd.Intn(30); i > 0; i-- {
			author := users[s.factory.rnd.Intn(len(users))]
			if _, err := s.factory.CreateChatMessage(author, group); err != nil {
				return created, err
			}
			created++
		}
	}
	return created, nil
}
