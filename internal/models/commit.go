package models

// Commit captures the fields of one hook commit the directive pipeline relies on.
type Commit struct {
	Message  string       `json:"message" bson:"message"`
	Author   CommitAuthor `json:"author" bson:"author"`
	Revision string       `json:"revision" bson:"revision"`
}

// CommitAuthor holds the commit author identity used to resolve the acting tracker user.
type CommitAuthor struct {
	Name  string `json:"name" bson:"name"`
	Email string `json:"email,omitempty" bson:"email,omitempty"`
}
