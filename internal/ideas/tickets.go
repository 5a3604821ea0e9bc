package ideas

import (
	"context"
	"fmt"
	"strings"

	"github.com/jomei/notionapi"
)

const (
	titleMaxLength = 100
	titleEllipsis  = "..."

	// TicketBaseURL prefixes the dash-less page id to form a shareable link.
	TicketBaseURL = "https://notion.so/"

	statusNew = "New"
)

// TicketStoreError wraps any failure reported by the ticket store.
type TicketStoreError struct {
	Err error
}

func (e *TicketStoreError) Error() string {
	return fmt.Sprintf("ticket store: %v", e.Err)
}

func (e *TicketStoreError) Unwrap() error {
	return e.Err
}

// Filer files one ticket per detected idea and returns its display URL.
type Filer interface {
	FileTicket(ctx context.Context, text, userID string) (string, error)
}

// NopFiler is used when no ticket store is configured.
type NopFiler struct{}

func (NopFiler) FileTicket(context.Context, string, string) (string, error) {
	return "", nil
}

// PageCreator is the subset of notionapi.PageService the filer needs.
type PageCreator interface {
	Create(ctx context.Context, req *notionapi.PageCreateRequest) (*notionapi.Page, error)
}

// NotionFiler creates one page per idea in a Notion database. The database
// needs a title property "Title", a select "Status" and a rich text "Source".
type NotionFiler struct {
	pages      PageCreator
	databaseID notionapi.DatabaseID
}

// NewNotionFiler builds a filer backed by the Notion API.
func NewNotionFiler(apiKey, databaseID string) *NotionFiler {
	client := notionapi.NewClient(notionapi.Token(apiKey))
	return NewNotionFilerWithPages(client.Page, databaseID)
}

func NewNotionFilerWithPages(pages PageCreator, databaseID string) *NotionFiler {
	return &NotionFiler{
		pages:      pages,
		databaseID: notionapi.DatabaseID(strings.TrimSpace(databaseID)),
	}
}

// FileTicket creates the page and returns its notion.so URL.
func (f *NotionFiler) FileTicket(ctx context.Context, text, userID string) (string, error) {
	page, err := f.pages.Create(ctx, f.buildRequest(text, userID))
	if err != nil {
		return "", &TicketStoreError{Err: err}
	}
	if page == nil || page.ID.String() == "" {
		return "", &TicketStoreError{Err: fmt.Errorf("create page: empty id")}
	}
	return TicketURL(page.ID.String()), nil
}

func (f *NotionFiler) buildRequest(text, userID string) *notionapi.PageCreateRequest {
	return &notionapi.PageCreateRequest{
		Parent: notionapi.Parent{
			Type:       notionapi.ParentTypeDatabaseID,
			DatabaseID: f.databaseID,
		},
		Properties: notionapi.Properties{
			"Title": notionapi.TitleProperty{
				Title: richText(TicketTitle(text)),
			},
			"Status": notionapi.SelectProperty{
				Select: notionapi.Option{Name: statusNew},
			},
			"Source": notionapi.RichTextProperty{
				RichText: richText("Slack User: " + userID),
			},
		},
		Children: []notionapi.Block{
			notionapi.ParagraphBlock{
				BasicBlock: notionapi.BasicBlock{
					Object: notionapi.ObjectTypeBlock,
					Type:   notionapi.BlockTypeParagraph,
				},
				Paragraph: notionapi.Paragraph{
					RichText: richText(text),
				},
			},
		},
	}
}

func richText(content string) []notionapi.RichText {
	return []notionapi.RichText{{Text: &notionapi.Text{Content: content}}}
}

// TicketTitle returns text unchanged when it has at most 100 code points,
// otherwise its first 100 code points followed by "...".
func TicketTitle(text string) string {
	runes := []rune(text)
	if len(runes) <= titleMaxLength {
		return text
	}
	return string(runes[:titleMaxLength]) + titleEllipsis
}

// TicketURL strips the dashes from a page id and prefixes TicketBaseURL.
func TicketURL(id string) string {
	return TicketBaseURL + strings.ReplaceAll(id, "-", "")
}
