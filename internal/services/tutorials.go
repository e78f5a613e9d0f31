package services

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"gorm.io/gorm"

	"github.com/storyarc/storyarc/internal/entities"
)

var (
	ErrTutorialFieldsRequired = errors.New("title, url and category are required")
	ErrInvalidVideoURL        = errors.New("invalid YouTube URL")
	ErrTutorialNotFound       = errors.New("tutorial not found")
)

var youTubeURLPattern = regexp.MustCompile(`^.*(youtu\.be/|v/|u/\w/|embed/|watch\?v=|&v=)([^#&?]*).*`)

const youTubeIDLength = 11

// ExtractVideoID returns the YouTube video id embedded in url, or "" when
// url is not a recognised YouTube link.
func ExtractVideoID(url string) string {
	m := youTubeURLPattern.FindStringSubmatch(url)
	if m == nil || len(m[2]) != youTubeIDLength {
		return ""
	}
	return m[2]
}

// ThumbnailURL is the full-size preview image of a YouTube video.
func ThumbnailURL(videoID string) string {
	return "https://img.youtube.com/vi/" + videoID + "/maxresdefault.jpg"
}

// TutorialPatch is a partial tutorial update. Nil fields are left untouched.
type TutorialPatch struct {
	Title    *string
	URL      *string
	Category *string
}

// TutorialService validates video links and derives their thumbnails.
type TutorialService struct {
	store TutorialStore
}

func NewTutorialService(store TutorialStore) *TutorialService {
	return &TutorialService{store: store}
}

func (s *TutorialService) Create(title, url, category string) (*entities.Tutorial, error) {
	title, url, category = strings.TrimSpace(title), strings.TrimSpace(url), strings.TrimSpace(category)
	if title == "" || url == "" || category == "" {
		return nil, ErrTutorialFieldsRequired
	}
	videoID := ExtractVideoID(url)
	if videoID == "" {
		return nil, ErrInvalidVideoURL
	}

	tutorial := &entities.Tutorial{
		Title:     title,
		URL:       url,
		VideoID:   videoID,
		Category:  category,
		Thumbnail: ThumbnailURL(videoID),
	}
	if err := s.store.Create(tutorial); err != nil {
		return nil, fmt.Errorf("failed to save tutorial: %w", err)
	}
	return tutorial, nil
}

// Update applies a partial change. A new URL re-derives the video id and
// thumbnail.
func (s *TutorialService) Update(id uint, patch TutorialPatch) (*entities.Tutorial, error) {
	tutorial, err := s.store.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTutorialNotFound
		}
		return nil, err
	}

	if patch.Title != nil {
		if t := strings.TrimSpace(*patch.Title); t != "" {
			tutorial.Title = t
		}
	}
	if patch.Category != nil {
		if c := strings.TrimSpace(*patch.Category); c != "" {
			tutorial.Category = c
		}
	}
	if patch.URL != nil {
		url := strings.TrimSpace(*patch.URL)
		videoID := ExtractVideoID(url)
		if videoID == "" {
			return nil, ErrInvalidVideoURL
		}
		tutorial.URL = url
		tutorial.VideoID = videoID
		tutorial.Thumbnail = ThumbnailURL(videoID)
	}

	if err := s.store.Save(tutorial); err != nil {
		return nil, fmt.Errorf("failed to update tutorial: %w", err)
	}
	return tutorial, nil
}
