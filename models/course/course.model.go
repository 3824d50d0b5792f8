package course

import "gorm.io/gorm"

// Course represents a learning course
type Course struct {
	gorm.Model
	Title          string `json:"title"`
	Description    string `json:"description"`
	InstructorName string `json:"instructor_name"`
	Duration       int64  `json:"duration" gorm:"default:0"`     // estimated duration in hours
	Skills         string `json:"skills"`                        // comma separated skills earned on completion
	Status         string `json:"status" gorm:"default:'DRAFT'"` // DRAFT, ACTIVE, INACTIVE
	ThumbnailURL   string `json:"thumbnail_url"`
	IsPublished    bool   `json:"is_published" gorm:"default:false"`
	IsDeleted      bool   `gorm:"default:false"`
}
