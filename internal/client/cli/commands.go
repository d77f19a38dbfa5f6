package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/dmitrijs2005/plms/internal/client/client"
	"github.com/dmitrijs2005/plms/internal/client/models"
	"github.com/dmitrijs2005/plms/internal/cryptox"
)

func (a *App) Login(ctx context.Context) error {
	name, err := GetSimpleText(a.reader, "-Enter user name", a.out)
	if err != nil {
		return err
	}

	password, err := GetPassword(a.out)
	if err != nil {
		return err
	}
	defer cryptox.Wipe(password)

	if err := a.session.Login(ctx, name, string(password)); err != nil {
		if errors.Is(err, client.ErrUnavailable) {
			printlnFn("Server unavailable, try again later.")
		} else {
			printlnFn("Login failed.")
		}
		return err
	}
	return nil
}

// Logout always ends the local session.
func (a *App) Logout(ctx context.Context) error {
	return a.session.SignOut(ctx)
}

func (a *App) WhoAmI(ctx context.Context) error {
	u := a.session.User()
	if u == nil {
		return client.ErrUnauthorized
	}
	printlnFn(fmt.Sprintf("%s (%s)", u.Name, u.Role))
	return nil
}

// ListTools prints one page of tools. The optional argument is a 1-based
// page number.
func (a *App) ListTools(ctx context.Context, args []string) error {
	pageNo := 1
	if len(args) > 0 {
		n, err := strconv.Atoi(args[0])
		if err != nil || n < 1 {
			printlnFn("Usage: tools [page]")
			return client.ErrInvalidInput
		}
		pageNo = n
	}

	page, err := a.api.ListTools(ctx, pageSize, (pageNo-1)*pageSize)
	if err != nil {
		return a.reportError(ctx, err)
	}

	if len(page.Tools) == 0 {
		printlnFn("No tools.")
		return nil
	}
	for _, t := range page.Tools {
		printlnFn(fmt.Sprintf("%-12s %-30s %s", t.Number, t.Designation, t.StatusLabel))
	}
	printlnFn(fmt.Sprintf("page %d, %d tools total", pageNo, page.Total))
	return nil
}

func (a *App) AddTool(ctx context.Context) error {
	var (
		in  models.NewTool
		err error
	)
	if in.Number, err = GetSimpleText(a.reader, "-Tool number", a.out); err != nil {
		return err
	}
	if in.Designation, err = GetSimpleText(a.reader, "-Designation", a.out); err != nil {
		return err
	}
	if in.Category, err = GetSimpleText(a.reader, "-Category (optional)", a.out); err != nil {
		return err
	}
	if in.StatusID, err = GetSimpleText(a.reader, "-Status (optional, default available)", a.out); err != nil {
		return err
	}
	if in.Stock, err = GetOptionalInt(a.reader, "-Stock (optional)", a.out, 0); err != nil {
		if errors.Is(err, strconv.ErrSyntax) || errors.Is(err, strconv.ErrRange) {
			printlnFn("Stock must be a number.")
			return client.ErrInvalidInput
		}
		return err
	}

	t, err := a.api.CreateTool(ctx, in)
	if err != nil {
		return a.reportError(ctx, err)
	}
	printlnFn("Tool created: " + t.ID)
	return nil
}

// UploadDocument sends a local file as the document of a tool.
func (a *App) UploadDocument(ctx context.Context, args []string) error {
	if len(args) != 2 {
		printlnFn("Usage: upload <tool-id> <file>")
		return client.ErrInvalidInput
	}

	f, err := os.Open(args[1])
	if err != nil {
		printlnFn("Cannot open file: " + err.Error())
		return err
	}
	defer f.Close()

	st, err := f.Stat()
	if err != nil {
		return err
	}

	key, err := a.api.UploadDocument(ctx, args[0], f, st.Size())
	if err != nil {
		return a.reportError(ctx, err)
	}
	printlnFn("Document stored as " + key)
	return nil
}

func (a *App) ShowDocument(ctx context.Context, args []string) error {
	if len(args) != 1 {
		printlnFn("Usage: doc <tool-id>")
		return client.ErrInvalidInput
	}

	link, err := a.api.DocumentLink(ctx, args[0])
	if err != nil {
		return a.reportError(ctx, err)
	}
	printlnFn(fmt.Sprintf("%s (valid for %ds)", link.DownloadURL, link.ExpiresIn))
	return nil
}

// reportError prints a short message. An expired session sends the user
// back to the login view.
func (a *App) reportError(ctx context.Context, err error) error {
	switch {
	case errors.Is(err, client.ErrUnauthorized):
		printlnFn("Session expired, please log in again.")
		_ = a.session.SignOut(ctx)
	case errors.Is(err, client.ErrForbidden):
		printlnFn("Your role may not do that.")
	case errors.Is(err, client.ErrNotFound):
		printlnFn("Not found.")
	case errors.Is(err, client.ErrConflict):
		printlnFn("A tool with that number already exists.")
	case errors.Is(err, client.ErrInvalidInput):
		printlnFn("The server rejected the input.")
	case errors.Is(err, client.ErrUnavailable):
		printlnFn("Server unavailable, try again later.")
	default:
		a.logger.Error(ctx, "request failed", "error", err)
		printlnFn("Request failed.")
	}
	return err
}
