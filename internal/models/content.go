package models

import "strings"

type Blog struct {
	Base        `bson:",inline"`
	Title       string   `json:"title" bson:"title" binding:"required"`
	Image       string   `json:"image,omitempty" bson:"image,omitempty"`
	Description string   `json:"description,omitempty" bson:"description,omitempty"`
	Date        string   `json:"date,omitempty" bson:"date,omitempty"`
	Category    string   `json:"category,omitempty" bson:"category,omitempty"`
	Author      string   `json:"author,omitempty" bson:"author,omitempty"`
	ReadTime    int      `json:"read_time" bson:"read_time" binding:"gte=0"`
	Tags        []string `json:"tags,omitempty" bson:"tags,omitempty"`
	Detail      string   `json:"detail,omitempty" bson:"detail,omitempty"`
	IsActive    bool     `json:"is_active" bson:"is_active"`
}

func NewBlog() *Blog { return &Blog{IsActive: true} }

func (b *Blog) Prepare() error {
	b.Title = strings.TrimSpace(b.Title)
	if b.Title == "" {
		return invalid("title", "title is required")
	}
	tags := b.Tags[:0]
	for _, t := range b.Tags {
		if t = strings.TrimSpace(t); t != "" {
			tags = append(tags, t)
		}
	}
	b.Tags = tags
	return nil
}

type Podcast struct {
	Base        `bson:",inline"`
	Title       string `json:"title" bson:"title" binding:"required"`
	Image       string `json:"image,omitempty" bson:"image,omitempty"`
	Description string `json:"description,omitempty" bson:"description,omitempty"`
	YoutubeLink string `json:"youtube_link,omitempty" bson:"youtube_link,omitempty" binding:"omitempty,url"`
	AdminName   string `json:"admin_name,omitempty" bson:"admin_name,omitempty"`
	Date        string `json:"date,omitempty" bson:"date,omitempty"`
	IsActive    bool   `json:"is_active" bson:"is_active"`
}

func NewPodcast() *Podcast { return &Podcast{IsActive: true} }

func (p *Podcast) Prepare() error {
	p.Title = strings.TrimSpace(p.Title)
	if p.Title == "" {
		return invalid("title", "title is required")
	}
	return nil
}

const (
	TestimonialText  = "text"
	TestimonialVideo = "video"
)

type Testimonial struct {
	Base        `bson:",inline"`
	Name        string `json:"name" bson:"name" binding:"required"`
	Image       string `json:"image,omitempty" bson:"image,omitempty"`
	Location    string `json:"location,omitempty" bson:"location,omitempty"`
	Description string `json:"description,omitempty" bson:"description,omitempty"`
	Rating      int    `json:"rating" bson:"rating" binding:"min=1,max=5"`
	Type        string `json:"type" bson:"type" binding:"oneof=text video"`
	VideoURL    string `json:"video_url,omitempty" bson:"video_url,omitempty"`
	IsActive    bool   `json:"is_active" bson:"is_active"`
}

func NewTestimonial() *Testimonial {
	return &Testimonial{IsActive: true, Type: TestimonialText, Rating: 5}
}

func (t *Testimonial) Prepare() error {
	t.Name = strings.TrimSpace(t.Name)
	if t.Name == "" {
		return invalid("name", "name is required")
	}
	if t.Type == TestimonialVideo && strings.TrimSpace(t.VideoURL) == "" {
		return invalid("video_url", "video testimonials need a video")
	}
	return nil
}

type FAQ struct {
	Base     `bson:",inline"`
	Question string `json:"question" bson:"question" binding:"required"`
	Answer   string `json:"answer" bson:"answer" binding:"required"`
	Category string `json:"category,omitempty" bson:"category,omitempty"`
	IsActive bool   `json:"is_active" bson:"is_active"`
}

func NewFAQ() *FAQ { return &FAQ{IsActive: true} }

func (f *FAQ) Prepare() error {
	f.Question = strings.TrimSpace(f.Question)
	f.Answer = strings.TrimSpace(f.Answer)
	if f.Question == "" || f.Answer == "" {
		return invalid("question", "both a question and an answer are required")
	}
	return nil
}

type Banner struct {
	Base        `bson:",inline"`
	Title       string `json:"title,omitempty" bson:"title,omitempty"`
	Description string `json:"description,omitempty" bson:"description,omitempty"`
	ImageURL    string `json:"image_url" bson:"image_url"`
	PublicID    string `json:"public_id,omitempty" bson:"public_id,omitempty"`
	IsActive    bool   `json:"is_active" bson:"is_active"`
}

type SliderText struct {
	Base     `bson:",inline"`
	Text     string `json:"text" bson:"text" binding:"required"`
	IsActive bool   `json:"is_active" bson:"is_active"`
}

func NewSliderText() *SliderText { return &SliderText{IsActive: true} }

func (s *SliderText) Prepare() error {
	s.Text = strings.TrimSpace(s.Text)
	if s.Text == "" {
		return invalid("text", "slider text is required")
	}
	return nil
}
