package handlers

import (
	"time"

	"storynest/internal/models"
	"storynest/internal/service"
)

// JSON shapes for API responses. Domain models stay tag-free; the wire
// format is owned here.

type bookView struct {
	ID          int64      `json:"id"`
	Title       string     `json:"title"`
	Author      string     `json:"author"`
	CategoryIDs []int64    `json:"categoryIds"`
	AgeGroupID  *int64     `json:"ageGroupId,omitempty"`
	PageCount   int        `json:"pageCount"`
	CoverURL    string     `json:"coverUrl,omitempty"`
	PublishedAt *time.Time `json:"publishedAt,omitempty"`
}

type categoryView struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

type pageView struct {
	PageIndex int    `json:"pageIndex"`
	Content   string `json:"content"`
	ImageURL  string `json:"imageUrl,omitempty"`
}

type libraryView struct {
	Books            []bookView     `json:"books"`
	Categories       []categoryView `json:"categories"`
	RemainingMinutes int            `json:"remainingMinutes"`
}

type scheduleView struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

type policyView struct {
	ChildID            int64         `json:"childId"`
	AllowedCategoryIDs []int64       `json:"allowedCategoryIds"`
	AllowedAgeGroupIDs []int64       `json:"allowedAgeGroupIds"`
	DailyLimitMinutes  int           `json:"dailyLimitMinutes"`
	Schedule           *scheduleView `json:"schedule"`
}

func toBookView(book models.Book) bookView {
	return bookView{
		ID:          book.ID,
		Title:       book.Title,
		Author:      book.Author,
		CategoryIDs: emptyIfNil(book.CategoryIDs),
		AgeGroupID:  book.AgeGroupID,
		PageCount:   book.PageCount,
		CoverURL:    book.CoverURL,
		PublishedAt: book.PublishedAt,
	}
}

func toLibraryView(result *service.LibraryResult) libraryView {
	books := make([]bookView, 0, len(result.Books))
	for _, book := range result.Books {
		books = append(books, toBookView(book))
	}

	categories := make([]categoryView, 0, len(result.Categories))
	for _, category := range result.Categories {
		categories = append(categories, categoryView{ID: category.ID, Name: category.Name, Slug: category.Slug})
	}

	return libraryView{
		Books:            books,
		Categories:       categories,
		RemainingMinutes: result.RemainingMinutes,
	}
}

func toPageViews(pages []models.BookPage) []pageView {
	views := make([]pageView, 0, len(pages))
	for _, page := range pages {
		views = append(views, pageView{
			PageIndex: page.PageIndex,
			Content:   page.Content,
			ImageURL:  page.ImageURL,
		})
	}
	return views
}

func toPolicyView(policy *models.Policy) policyView {
	view := policyView{
		ChildID:            policy.ChildID,
		AllowedCategoryIDs: emptyIfNil(policy.AllowedCategoryIDs),
		AllowedAgeGroupIDs: emptyIfNil(policy.AllowedAgeGroupIDs),
		DailyLimitMinutes:  policy.DailyLimitMinutes,
	}
	if policy.Schedule != nil {
		view.Schedule = &scheduleView{Start: policy.Schedule.Start, End: policy.Schedule.End}
	}
	return view
}

// emptyIfNil keeps empty allowlists as [] on the wire instead of null
func emptyIfNil(ids []int64) []int64 {
	if ids == nil {
		return []int64{}
	}
	return ids
}
