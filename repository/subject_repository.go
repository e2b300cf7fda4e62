package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/mddforum/mdd-api/models"
)

// DefaultSubjects are inserted into an empty subjects table at boot.
var DefaultSubjects = []models.Subject{
	{Name: "Java", Description: "The Java language, the JVM and its ecosystem."},
	{Name: "Go", Description: "Go programming, tooling and the standard library."},
	{Name: "JavaScript", Description: "JavaScript and TypeScript, in the browser and on the server."},
	{Name: "Python", Description: "Python for scripting, data and the web."},
	{Name: "Web", Description: "Frontend frameworks, HTML and CSS."},
	{Name: "DevOps", Description: "Containers, CI/CD and running software in production."},
}

// SubjectRepository reads subjects and their subscription status.
type SubjectRepository struct {
	db *gorm.DB
}

func NewSubjectRepository(db *gorm.DB) *SubjectRepository {
	return &SubjectRepository{db: db}
}

// List returns every subject ordered by id.
func (r *SubjectRepository) List(ctx context.Context) ([]models.Subject, error) {
	subjects := []models.Subject{}
	err := r.db.WithContext(ctx).Order("id ASC").Find(&subjects).Error
	return subjects, err
}

func (r *SubjectRepository) FindByID(ctx context.Context, id uint) (*models.Subject, error) {
	var subject models.Subject
	if err := r.db.WithContext(ctx).First(&subject, id).Error; err != nil {
		return nil, translate(err)
	}
	return &subject, nil
}

// ListWithStatus returns every subject left-joined with userID's subscription row.
func (r *SubjectRepository) ListWithStatus(ctx context.Context, userID uint) ([]models.SubjectWithStatus, error) {
	rows := []models.SubjectWithStatus{}
	err := r.db.WithContext(ctx).
		Table("subjects").
		Select("subjects.id, subjects.name, subjects.description, subscriptions.id AS subscription_id").
		Joins("LEFT JOIN subscriptions ON subscriptions.subject_id = subjects.id AND subscriptions.user_id = ?", userID).
		Order("subjects.id ASC").
		Scan(&rows).Error
	return rows, err
}

// ListSubscribed returns the subjects userID is subscribed to, ordered by id.
func (r *SubjectRepository) ListSubscribed(ctx context.Context, userID uint) ([]models.Subject, error) {
	subjects := []models.Subject{}
	err := r.db.WithContext(ctx).
		Joins("JOIN subscriptions ON subscriptions.subject_id = subjects.id").
		Where("subscriptions.user_id = ?", userID).
		Order("subjects.id ASC").
		Find(&subjects).Error
	return subjects, err
}

func (r *SubjectRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&models.Subject{}).Count(&n).Error
	return n, err
}

// SeedSubjects inserts defaults when the subjects table is empty and returns how many rows were written.
func SeedSubjects(ctx context.Context, db *gorm.DB, defaults []models.Subject) (int, error) {
	if len(defaults) == 0 {
		return 0, nil
	}
	inserted := 0
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.Subject{}).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return nil
		}
		rows := make([]models.Subject, len(defaults))
		copy(rows, defaults)
		for i := range rows {
			rows[i].ID = 0
		}
		if err := tx.Create(&rows).Error; err != nil {
			return translate(err)
		}
		inserted = len(rows)
		return nil
	})
	return inserted, err
}
