package services

import (
	"errors"

	"inkwell/internal/models"

	"gorm.io/gorm"
)

// ErrParentNotFound is returned when a reply names a parent comment that
// does not exist on the same post.
var ErrParentNotFound = errors.New("parent comment not found on this post")

// timeCreateLayout is the fixed pattern clients render comment timestamps
// with, e.g. "2026-Sep-01 14:05:09".
const timeCreateLayout = "2006-Jan-02 15:04:05"

// CommentRecord is the machine-readable shape returned after creating a
// comment, enough for the client to render the new node in place.
type CommentRecord struct {
	ID          uint   `json:"id"`
	IsChild     bool   `json:"is_child"`
	Author      string `json:"author"`
	ParentID    *uint  `json:"parent_id"`
	TimeCreate  string `json:"time_create"`
	Avatar      string `json:"avatar"`
	Content     string `json:"content"`
	AbsoluteURL string `json:"get_absolute_url"`
}

// ThreadedComment is a comment plus its nesting depth for rendering.
type ThreadedComment struct {
	models.Comment
	Depth int
}

// CommentService stores comments as an adjacency-list tree per post.
type CommentService struct {
	db *gorm.DB
}

func NewCommentService(conn *gorm.DB) *CommentService {
	return &CommentService{db: conn}
}

// Create persists a comment, attaching it under parentID when set. The
// parent lookup is scoped to the same post, so a reply can never cross
// post boundaries.
func (s *CommentService) Create(postID, userID uint, parentID *uint, content string) (*CommentRecord, error) {
	if parentID != nil {
		var parent models.Comment
		err := s.db.Where("id = ? AND post_id = ?", *parentID, postID).First(&parent).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrParentNotFound
		}
		if err != nil {
			return nil, err
		}
	}

	comment := models.Comment{
		PostID:   postID,
		UserID:   userID,
		ParentID: parentID,
		Content:  content,
	}
	if err := s.db.Create(&comment).Error; err != nil {
		return nil, err
	}

	var author models.User
	if err := s.db.Preload("Profile").First(&author, userID).Error; err != nil {
		return nil, err
	}

	return &CommentRecord{
		ID:          comment.ID,
		IsChild:     comment.IsChildNode(),
		Author:      author.Username,
		ParentID:    comment.ParentID,
		TimeCreate:  comment.CreatedAt.Format(timeCreateLayout),
		Avatar:      author.Profile.Avatar,
		Content:     comment.Content,
		AbsoluteURL: author.Profile.AbsoluteURL(),
	}, nil
}

// Thread returns the post's comments in parent-before-child order with
// depths, ready for indented rendering.
func (s *CommentService) Thread(postID uint) ([]ThreadedComment, error) {
	var comments []models.Comment
	err := s.db.Preload("User").Preload("User.Profile").
		Where("post_id = ?", postID).
		Order("created_at ASC, id ASC").
		Find(&comments).Error
	if err != nil {
		return nil, err
	}

	children := make(map[uint][]models.Comment)
	var roots []models.Comment
	for _, c := range comments {
		if c.ParentID == nil {
			roots = append(roots, c)
		} else {
			children[*c.ParentID] = append(children[*c.ParentID], c)
		}
	}

	thread := make([]ThreadedComment, 0, len(comments))
	var walk func(nodes []models.Comment, depth int)
	walk = func(nodes []models.Comment, depth int) {
		for _, n := range nodes {
			thread = append(thread, ThreadedComment{Comment: n, Depth: depth})
			walk(children[n.ID], depth+1)
		}
	}
	walk(roots, 0)
	return thread, nil
}

// Count returns the number of comments on a post.
func (s *CommentService) Count(postID uint) (int64, error) {
	var count int64
	err := s.db.Model(&models.Comment{}).Where("post_id = ?", postID).Count(&count).Error
	return count, err
}
