package domain

// PublishInput renders content and stages it on the account sandbox
type PublishInput struct {
	Title           string         `json:"title"                      validate:"required,min=1,max=255,wikititle" example:"Acme Widget"`
	Summary         string         `json:"summary,omitempty"          validate:"omitempty,max=500" example:"Staged content in sandbox"`
	TemplateName    string         `json:"template_name,omitempty"    validate:"omitempty,max=200" example:"product_wiki.txt"`
	TemplateContext map[string]any `json:"template_context,omitempty"`
	Content         string         `json:"content,omitempty"          validate:"omitempty,max=2000000"`
}

// PublishOutput is the publish response body
type PublishOutput struct {
	Status             string `json:"status"                 example:"success"`
	Page               string `json:"page"                   example:"User:Alice/sandbox"`
	URL                string `json:"url"                    example:"https://en.wikipedia.org/wiki/User:Alice/sandbox"`
	ArticleTitle       string `json:"article_title"          example:"Acme Widget"`
	RevisionID         int64  `json:"revision_id,omitempty"  example:"1234567"`
	IdentityUsed       string `json:"identity_used"          example:"Alice@PsiAdirondackBot"`
	BotPasswordCreated bool   `json:"bot_password_created"   example:"true"`
	OperationID        string `json:"operation_id"           example:"1f0c7a52-3f7e-4b8e-9a5e-2c7e0d4b9a11"`
}

// CopyInput copies one page's latest revision onto another
type CopyInput struct {
	From    string `json:"from"              validate:"required,min=1,max=255,wikititle" example:"Acme Widget"`
	To      string `json:"to"                validate:"required,min=1,max=255,wikititle,nefield=From" example:"User:Alice/sandbox"`
	Summary string `json:"summary,omitempty" validate:"omitempty,max=500" example:"Copy for review"`
}

// CopyOutput is the copy response body
type CopyOutput struct {
	Status             string `json:"status"                example:"success"`
	From               string `json:"from"                  example:"Acme Widget"`
	Page               string `json:"page"                  example:"User:Alice/sandbox"`
	URL                string `json:"url"                   example:"https://en.wikipedia.org/wiki/User:Alice/sandbox"`
	RevisionID         int64  `json:"revision_id,omitempty" example:"1234568"`
	IdentityUsed       string `json:"identity_used"         example:"Alice"`
	BotPasswordCreated bool   `json:"bot_password_created"  example:"false"`
	OperationID        string `json:"operation_id"          example:"1f0c7a52-3f7e-4b8e-9a5e-2c7e0d4b9a11"`
}
