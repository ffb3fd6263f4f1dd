package cli

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/EmySim/mdd/internal/client/router"
	"github.com/EmySim/mdd/internal/client/services"
)

// Feed navigates to the feed and lists articles from subscribed themes.
func (a *App) Feed(ctx context.Context) error {
	if reached, err := a.router.Navigate(ctx, router.RouteFeed); err != nil || reached != router.RouteFeed {
		return err
	}

	articles, err := a.articles.Feed(ctx)
	if err != nil {
		return err
	}
	if len(articles) == 0 {
		printlnFn("Your feed is empty. Subscribe to themes to see articles.")
		return nil
	}
	for _, art := range articles {
		printlnFn(fmt.Sprintf("%3d  %s by %s [%s]", art.ID, art.Title, art.Author, art.ThemeName))
	}
	return nil
}

// Read shows one article with its comments.
func (a *App) Read(ctx context.Context, arg string) error {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil {
		printlnFn("Usage: read <article id>")
		return nil
	}
	if reached, navErr := a.router.Navigate(ctx, router.RouteArticle); navErr != nil || reached != router.RouteArticle {
		return navErr
	}

	art, err := a.articles.Get(ctx, id)
	if err != nil {
		return err
	}
	printlnFn("# " + art.Title + " by " + art.Author)
	printlnFn(art.Content)

	comments, err := a.articles.Comments(ctx, id)
	if err != nil {
		return err
	}
	for _, c := range comments {
		printlnFn(fmt.Sprintf("  %s: %s", c.Author, c.Content))
	}
	return nil
}

// Post creates a new article in a theme.
func (a *App) Post(ctx context.Context) error {
	themeArg, err := getSimpleText(a.reader, "Theme id", os.Stdout)
	if err != nil {
		return err
	}
	themeID, err := strconv.ParseInt(themeArg, 10, 64)
	if err != nil {
		printlnFn("Theme id must be a number")
		return nil
	}
	title, err := getSimpleText(a.reader, "Title", os.Stdout)
	if err != nil {
		return err
	}
	content, err := GetMultiline(a.reader, "Content", os.Stdout)
	if err != nil {
		return err
	}

	art, err := a.articles.Create(ctx, services.CreateArticleRequest{Title: title, Content: content, ThemeID: themeID})
	if err != nil {
		return err
	}
	printlnFn(fmt.Sprintf("Published article %d", art.ID))
	return nil
}

// Comment adds a comment to an article.
func (a *App) Comment(ctx context.Context, arg string) error {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil {
		printlnFn("Usage: comment <article id>")
		return nil
	}

	content, err := GetMultiline(a.reader, "Comment", os.Stdout)
	if err != nil {
		return err
	}
	if content == "" {
		return nil
	}

	if _, err := a.articles.AddComment(ctx, id, content); err != nil {
		return err
	}
	printlnFn("Comment added")
	return nil
}

// Notices prints the bounded notification history, newest first.
func (a *App) Notices(ctx context.Context) error {
	history := a.bus.History()
	if len(history) == 0 {
		printlnFn("No notifications yet")
		return nil
	}
	for _, n := range history {
		printlnFn(fmt.Sprintf("%s [%s] %s: %s", n.CreatedAt.Format("15:04:05"), n.Kind, n.Title, n.Message))
	}
	return nil
}
