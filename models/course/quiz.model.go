package course

import "gorm.io/gorm"

// Quiz represents a graded quiz within a course
type Quiz struct {
	gorm.Model
	CourseID     uint   `json:"course_id" gorm:"index;not null"`
	Title        string `json:"title"`
	PassingScore int    `json:"passing_score" gorm:"default:70"` // percentage required to pass
	MaxAttempts  int    `json:"max_attempts" gorm:"default:3"`   // 0 means unlimited
	OrderIndex   int    `json:"order_index" gorm:"default:0"`
	IsPublished  bool   `json:"is_published" gorm:"default:false"`
	IsDeleted    bool   `gorm:"default:false"`
}

// QuizQuestion represents a question with a single correct answer
type QuizQuestion struct {
	gorm.Model
	QuizID        uint   `json:"quiz_id" gorm:"index;not null"`
	Prompt        string `json:"prompt" gorm:"type:text"`
	CorrectAnswer string `json:"-" gorm:"not null"` // never serialized to learners
	Points        int    `json:"points" gorm:"default:1"`
	OrderIndex    int    `json:"order_index" gorm:"default:0"`
	IsDeleted     bool   `gorm:"default:false"`
}
