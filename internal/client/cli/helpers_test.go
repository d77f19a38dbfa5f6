package cli

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/dmitrijs2005/plms/internal/client/client"
	"github.com/dmitrijs2005/plms/internal/client/config"
	"github.com/dmitrijs2005/plms/internal/client/models"
	"github.com/dmitrijs2005/plms/internal/logging"
)

type fakeAPI struct {
	meUser    *models.User
	meErr     error
	loginUser *models.User
	loginErr  error
	logoutErr error
	page      *models.ToolPage
	listErr   error
	created   *models.Tool
	createErr error
	docKey    string
	uploadErr error
	link      *models.DocumentLink
	linkErr   error

	loginCalls  int
	logoutCalls int
	gotLimit    int
	gotOffset   int
	gotNewTool  models.NewTool
	gotName     string
	gotPassword string
	gotToolID   string
	gotUpload   []byte
	gotSize     int64
}

var _ client.Client = (*fakeAPI)(nil)

func (f *fakeAPI) Login(_ context.Context, name, password string) (*models.User, error) {
	f.loginCalls++
	f.gotName, f.gotPassword = name, password
	return f.loginUser, f.loginErr
}

func (f *fakeAPI) Logout(context.Context) error {
	f.logoutCalls++
	return f.logoutErr
}

func (f *fakeAPI) Me(context.Context) (*models.User, error) {
	if f.meErr != nil {
		return nil, f.meErr
	}
	if f.meUser == nil {
		return nil, client.ErrUnauthorized
	}
	return f.meUser, nil
}

func (f *fakeAPI) ListTools(_ context.Context, limit, offset int) (*models.ToolPage, error) {
	f.gotLimit, f.gotOffset = limit, offset
	return f.page, f.listErr
}

func (f *fakeAPI) CreateTool(_ context.Context, t models.NewTool) (*models.Tool, error) {
	f.gotNewTool = t
	return f.created, f.createErr
}

func (f *fakeAPI) UploadDocument(_ context.Context, toolID string, body io.Reader, size int64) (string, error) {
	f.gotToolID, f.gotSize = toolID, size
	f.gotUpload, _ = io.ReadAll(body)
	return f.docKey, f.uploadErr
}

func (f *fakeAPI) DocumentLink(_ context.Context, toolID string) (*models.DocumentLink, error) {
	f.gotToolID = toolID
	return f.link, f.linkErr
}

// captureOutput swaps printlnFn for the duration of the test.
func captureOutput(t *testing.T) *[]string {
	t.Helper()
	var lines []string
	orig := printlnFn
	printlnFn = func(a ...any) (int, error) {
		lines = append(lines, strings.TrimSpace(fmt.Sprintln(a...)))
		return 0, nil
	}
	t.Cleanup(func() { printlnFn = orig })
	return &lines
}

func stubPassword(t *testing.T, pw string, err error) {
	t.Helper()
	orig := readPassword
	readPassword = func(int) ([]byte, error) {
		if err != nil {
			return nil, err
		}
		return []byte(pw), nil
	}
	t.Cleanup(func() { readPassword = orig })
}

func newTestApp(api *fakeAPI, input string) (*App, *bytes.Buffer) {
	out := &bytes.Buffer{}
	cfg := &config.Config{ServerURL: "http://127.0.0.1:8080", RequestTimeout: time.Second}
	return newApp(cfg, api, strings.NewReader(input), out, logging.Nop()), out
}
