// internal/app/features/posts/create.go
package posts

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/dalemusser/strataleads/internal/app/system/auth"
	"github.com/dalemusser/strataleads/internal/app/system/format"
	"github.com/dalemusser/strataleads/internal/app/system/forms"
	"github.com/dalemusser/strataleads/internal/app/system/formutil"
	"github.com/dalemusser/strataleads/internal/app/system/htmlsanitize"
	"github.com/dalemusser/strataleads/internal/app/system/inputval"
	"github.com/dalemusser/strataleads/internal/app/system/notify"
	"github.com/dalemusser/strataleads/internal/app/system/tasks"
	"github.com/dalemusser/strataleads/internal/app/system/viewdata"
	"github.com/dalemusser/waffle/pantry/storage"
	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

var imageExts = map[string]bool{".jpg": true, ".jpeg": true, ".png": true, ".gif": true, ".webp": true}

var errNoImage = errors.New("posts: no image uploaded")

var fieldLabels = map[string]string{
	"contenu":       "Contenu",
	"prompt_image":  "Description de l'image",
	"cta_keyword":   "Mot-clé du CTA",
	"scheduled_for": "Date de publication",
}

// FormVM is the new-post page.
type FormVM struct {
	formutil.Base
	Form    forms.PostForm
	Gate    GateVM
	MaxSize string
}

// GateVM is the submit area, re-rendered by /posts/new/check.
type GateVM struct {
	CanSubmit bool
	Missing   []string
}

func gate(f forms.PostForm) GateVM {
	g := GateVM{CanSubmit: f.CanSubmit()}
	for _, name := range f.Missing() {
		g.Missing = append(g.Missing, fieldLabels[name])
	}
	return g
}

func (h *Handler) renderForm(w http.ResponseWriter, r *http.Request, f forms.PostForm, edit func(*FormVM)) {
	vm := FormVM{
		Base:    formutil.NewBase(r, "Nouveau post", "/posts"),
		Form:    f,
		Gate:    gate(f),
		MaxSize: fmt.Sprintf("%d Mo", h.opts.UploadMaxBytes>>20),
	}
	if edit != nil {
		edit(&vm)
	}
	templates.Render(w, r, "posts/new", vm)
}

func (h *Handler) newForm(w http.ResponseWriter, r *http.Request) {
	h.renderForm(w, r, forms.NewPostForm(), nil)
}

// limitBody caps the request body at the upload size plus room for the
// text fields and parses it.
func (h *Handler) limitBody(w http.ResponseWriter, r *http.Request) error {
	r.Body = http.MaxBytesReader(w, r.Body, h.opts.UploadMaxBytes+1<<20)
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		return r.ParseMultipartForm(h.opts.UploadMaxBytes)
	}
	return r.ParseForm()
}

// check re-renders the submit area with the gating of the current values.
func (h *Handler) check(w http.ResponseWriter, r *http.Request) {
	if err := h.limitBody(w, r); err != nil {
		http.Error(w, "invalid form", http.StatusRequestEntityTooLarge)
		return
	}
	templates.RenderSnippet(w, "posts/gate", gate(forms.ParsePostForm(r)))
}

// create relays a new post to the content workflow. The workflow writes
// the post later; a bounded watch records when it lands.
func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	if err := h.limitBody(w, r); err != nil {
		h.errLog.Log(r, "failed to parse post form", err)
		h.renderForm(w, r, forms.ParsePostForm(r), func(vm *FormVM) {
			vm.SetError(viewdata.ErrorMessage(viewdata.ErrUpload))
		})
		return
	}

	f := forms.ParsePostForm(r)
	if res := f.Check(h.opts.Location, h.now()); res.HasErrors() {
		h.renderForm(w, r, f, func(vm *FormVM) { vm.SetResult(res) })
		return
	}

	release, ok := h.guard.TryAcquire("post-form:" + f.Token)
	if !ok {
		notify.Busy(w, r)
		return
	}

	imageURL, err := h.upload(r.Context(), r, f)
	if err != nil {
		release()
		if errors.Is(err, errNoImage) {
			res := &inputval.Result{}
			res.Add("image", "Image", "Choisissez une image JPEG, PNG, GIF ou WebP.")
			h.renderForm(w, r, f, func(vm *FormVM) { vm.SetResult(res) })
			return
		}
		h.errLog.Log(r, "post image upload failed", err)
		h.renderForm(w, r, f, func(vm *FormVM) { vm.SetError(viewdata.ErrorMessage(viewdata.ErrUpload)) })
		return
	}

	now := h.now()
	payload := f.ContentPayload(imageURL, h.opts.Location, now)
	sub := Submission{
		Token:       f.Token,
		UserID:      userID(r),
		Summary:     htmlsanitize.Excerpt(f.Contenu, 80),
		SubmittedAt: now.UTC(),
	}

	if h.opts.AwaitAck {
		defer release()
		if _, err := h.relay.SubmitContent(r.Context(), payload); err != nil {
			h.errLog.Log(r, "content relay failed", err)
			h.renderForm(w, r, f, func(vm *FormVM) { vm.SetError(viewdata.ErrorMessage(viewdata.ErrRelay)) })
			return
		}
		h.tracker.Add(sub)
		h.watch(sub)
		http.Redirect(w, r, viewdata.WithOK("/posts", viewdata.OKPostSubmitted), http.StatusSeeOther)
		return
	}

	h.tracker.Add(sub)
	started := h.runner.Go("post-submit", func(ctx context.Context) error {
		defer release()
		if _, err := h.relay.SubmitContent(ctx, payload); err != nil {
			h.tracker.Resolve(sub.Token, StateFailed, 0)
			return err
		}
		h.watch(sub)
		return nil
	})
	if !started {
		release()
		h.tracker.Resolve(sub.Token, StateFailed, 0)
		h.renderForm(w, r, f, func(vm *FormVM) { vm.SetError(viewdata.ErrorMessage(viewdata.ErrRelay)) })
		return
	}
	http.Redirect(w, r, viewdata.WithOK("/posts", viewdata.OKPostSubmitted), http.StatusSeeOther)
}

// upload stores the attached image under posts/YYYY/MM and returns its
// public URL. It returns "" when the form does not ask for an upload.
func (h *Handler) upload(ctx context.Context, r *http.Request, f forms.PostForm) (string, error) {
	if !f.WantsUpload() {
		return "", nil
	}
	file, header, err := r.FormFile("image")
	if err != nil || header.Size == 0 {
		return "", errNoImage
	}
	defer file.Close()

	ext := strings.ToLower(filepath.Ext(header.Filename))
	if !imageExts[ext] {
		return "", errNoImage
	}
	if h.files == nil {
		return "", errors.New("posts: image storage not configured")
	}

	now := h.now().UTC()
	path := fmt.Sprintf("posts/%04d/%02d/%s%s", now.Year(), int(now.Month()), uuid.New().String()[:8], ext)
	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	if err := h.files.Put(ctx, path, file, &storage.PutOptions{ContentType: contentType}); err != nil {
		return "", fmt.Errorf("store image: %w", err)
	}
	h.logger.Info("post image stored", zap.String("path", path), zap.Int64("size", header.Size))
	return h.files.URL(path), nil
}

// watch polls for the post the workflow writes after sub. The oldest post
// created since the submission is taken as the one it produced.
func (h *Handler) watch(sub Submission) {
	var landed int64
	started := h.runner.Watch(tasks.Watch{
		Name:     "post-landed",
		Interval: h.opts.WatchInterval,
		MaxRuns:  h.opts.WatchMaxRuns,
		Check: func(ctx context.Context) (bool, error) {
			found, err := h.posts.CreatedSince(ctx, sub.SubmittedAt)
			if err != nil || len(found) == 0 {
				return false, err
			}
			landed = found[len(found)-1].ID
			return true, nil
		},
		OnDone: func(o tasks.Outcome) {
			switch o {
			case tasks.Found:
				h.tracker.Resolve(sub.Token, StateLanded, landed)
			case tasks.Exhausted:
				h.tracker.Resolve(sub.Token, StateTimedOut, 0)
			}
		},
	})
	if !started {
		h.tracker.Resolve(sub.Token, StateTimedOut, 0)
	}
}

// PendingItem is one row of the creation tracker.
type PendingItem struct {
	Submission
	When string
}

// PendingVM is the creation tracker fragment.
type PendingVM struct {
	Items       []PendingItem
	AnyPending  bool
	PollSeconds int
}

func (h *Handler) pendingVM(r *http.Request) PendingVM {
	now := h.now()
	vm := PendingVM{PollSeconds: max(1, int(h.opts.WatchInterval/time.Second))}
	for _, s := range h.tracker.Recent(userID(r)) {
		at := s.SubmittedAt
		vm.Items = append(vm.Items, PendingItem{Submission: s, When: format.Relative(&at, now)})
		if s.State == StatePending {
			vm.AnyPending = true
		}
	}
	return vm
}

func userID(r *http.Request) string {
	if u, ok := auth.CurrentUser(r); ok {
		return u.ID
	}
	return ""
}

func (h *Handler) pending(w http.ResponseWriter, r *http.Request) {
	templates.RenderSnippet(w, "posts/pending", h.pendingVM(r))
}
