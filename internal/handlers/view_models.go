package handlers

import "time"

type registerRequest struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	Username  string `json:"username"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

type loginRequest struct {
	Login    string `json:"login"`
	Password string `json:"password"`
}

type forgotPassRequest struct {
	Email string `json:"email"`
}

type resetPassRequest struct {
	Token    string `json:"token"`
	Password string `json:"password"`
}

type changePassRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

type authResponse struct {
	User  interface{} `json:"user"`
	Token string      `json:"token"`
}

type addSkillRequest struct {
	StatID      int64      `json:"statId"`
	Topic       int64      `json:"topic"`
	TopicName   string     `json:"topicName"`
	Description string     `json:"description"`
	Goal        *float64   `json:"goal"`
	DueDate     *time.Time `json:"dueDate"`
}

type editSkillRequest struct {
	SkillID      string     `json:"skillId"`
	Description  *string    `json:"description"`
	Goal         *float64   `json:"goal"`
	DueDate      *time.Time `json:"dueDate"`
	ClearDueDate bool       `json:"clearDueDate"`
}

type generateStatsRequest struct {
	StatID int64 `json:"statId"`
}

type generateStatsResponse struct {
	UpdatedStat interface{} `json:"updatedStat"`
	NotReady    interface{} `json:"notReady"`
}

type createBookRequest struct {
	Title       string   `json:"title"`
	Subtitle    string   `json:"subtitle"`
	Description string   `json:"description"`
	Publisher   string   `json:"publisher"`
	PublishDate string   `json:"publishDate"`
	ISBN10      string   `json:"isbn10"`
	ISBN13      string   `json:"isbn13"`
	AmazonLink  string   `json:"amazonLink"`
	Topics      []int64  `json:"topics"`
	TopicNames  []string `json:"topicNames"`
}

type addBookTopicRequest struct {
	Topic     int64  `json:"topic"`
	TopicName string `json:"topicName"`
}

type agreeRequest struct {
	Topic int64 `json:"topic"`
}

type toggleResponse struct {
	Active bool        `json:"active"`
	Item   interface{} `json:"item,omitempty"`
}

type createTopicRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

type similarTopicRequest struct {
	SimilarID int64 `json:"similarId"`
}

type createShelfRequest struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Public      bool    `json:"public"`
	Books       []int64 `json:"books"`
}

type updateShelfRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Public      *bool   `json:"public"`
}
