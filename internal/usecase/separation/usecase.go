package separation

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/juju/clock"
	"go.uber.org/zap"

	"separation-engine/internal/domain/actor"
	"separation-engine/internal/domain/document"
	"separation-engine/internal/domain/notification"
	domain "separation-engine/internal/domain/separation"
	"separation-engine/internal/domain/template"
	"separation-engine/internal/domain/uow"
)

type Deps struct {
	Cases     domain.Repository
	Templates template.Repository
	UoW       uow.UnitOfWork
	Store     document.Store
	Directory actor.Directory
	Notifier  notification.Dispatcher
	Clock     clock.Clock
	Logger    *zap.Logger
	// AccountGrace defaults to domain.AccountGracePeriod.
	AccountGrace time.Duration
}

type Usecase struct {
	cases     domain.Repository
	templates template.Repository
	uow       uow.UnitOfWork
	store     document.Store
	directory actor.Directory
	notifier  notification.Dispatcher
	clock     clock.Clock
	log       *zap.Logger
	grace     time.Duration
}

func NewUsecase(d Deps) *Usecase {
	u := &Usecase{
		cases:     d.Cases,
		templates: d.Templates,
		uow:       d.UoW,
		store:     d.Store,
		directory: d.Directory,
		notifier:  d.Notifier,
		clock:     d.Clock,
		log:       d.Logger,
		grace:     d.AccountGrace,
	}
	if u.notifier == nil {
		u.notifier = nopDispatcher{}
	}
	if u.clock == nil {
		u.clock = clock.WallClock
	}
	if u.log == nil {
		u.log = zap.NewNop()
	}
	if u.grace <= 0 {
		u.grace = domain.AccountGracePeriod
	}
	return u
}

func (u *Usecase) now() time.Time { return u.clock.Now().UTC() }

func (u *Usecase) dto(c *domain.Case, a actor.Actor) *CaseDTO {
	return &CaseDTO{Case: c, Stage: c.Stage(), AllowedActions: AllowedActions(c, a.Role)}
}

// load reads the current case for a pre-flight check. Handlers that upload
// run their guard here first so a doomed request never touches storage; the
// guard runs again under the row lock before the write.
func (u *Usecase) load(ctx context.Context, employeeID string) (*domain.Case, error) {
	c, err := u.cases.GetByEmployeeID(ctx, employeeID)
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return nil, err
	case err != nil:
		return nil, fmt.Errorf("%w: load case: %v", domain.ErrPersistenceFailure, err)
	}
	return c, nil
}

func (u *Usecase) upload(ctx context.Context, path string, f File) (document.Ref, error) {
	handle, err := u.store.Put(ctx, path, f.Content)
	if err != nil {
		return document.Ref{}, fmt.Errorf("%w: upload %s: %v", domain.ErrStorageFailure, f.Name, err)
	}
	return document.NewRef(handle, f.Name, u.now()), nil
}

// abort converts a failed transaction into the caller-facing error and deals
// with objects uploaded for it. A rejected revalidation means nothing will
// ever reference them, so they are released; a failed write leaves them
// orphaned, which is tolerated.
func (u *Usecase) abort(ctx context.Context, employeeID string, err error, uploaded ...document.Ref) error {
	if domain.IsDomainError(err) {
		u.release(ctx, employeeID, uploaded...)
		return err
	}
	for _, r := range uploaded {
		if !r.IsZero() {
			u.log.Error("write failed after upload, stored document orphaned",
				zap.String("employee_id", employeeID),
				zap.String("handle", r.Handle),
				zap.Error(err))
		}
	}
	return fmt.Errorf("%w: %v", domain.ErrPersistenceFailure, err)
}

// mutate locks and reloads the case, applies fn and writes the case back.
func (u *Usecase) mutate(ctx context.Context, employeeID string, uploaded []document.Ref, fn func(r uow.Repos, c *domain.Case) error) (*domain.Case, error) {
	var saved *domain.Case
	err := u.uow.WithinCaseTx(ctx, employeeID, func(r uow.Repos, c *domain.Case) error {
		if err := fn(r, c); err != nil {
			return err
		}
		if err := r.Cases.Upsert(ctx, c); err != nil {
			return err
		}
		saved = c
		return nil
	})
	if err != nil {
		return nil, u.abort(ctx, employeeID, err, uploaded...)
	}
	return saved, nil
}

func requireEmployee(employeeID string) error {
	if employeeID == "" {
		return fmt.Errorf("%w: employee id is required", domain.ErrInvalidInput)
	}
	return nil
}

// SubmitResignation creates the case or replaces a still-pending submission.
// The type is fixed by the first submission; a resubmission may omit it.
func (u *Usecase) SubmitResignation(ctx context.Context, a actor.Actor, in SubmitResignationInput) (*CaseDTO, error) {
	if err := requireEmployee(in.EmployeeID); err != nil {
		return nil, err
	}
	if err := u.authorize(ctx, a, ActionSubmitResignation, in.EmployeeID); err != nil {
		return nil, err
	}
	if in.Type != "" {
		if _, err := domain.ParseType(string(in.Type)); err != nil {
			return nil, err
		}
	}
	if in.Letter.empty() {
		return nil, fmt.Errorf("%w: resignation letter is required", domain.ErrInvalidInput)
	}

	existing, err := u.load(ctx, in.EmployeeID)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}
	if err := existing.CanSubmitResignation(); err != nil {
		return nil, err
	}
	if err := existing.CanResubmitAs(in.Type); err != nil {
		return nil, err
	}

	letter, err := u.upload(ctx, document.ObjectPath(in.EmployeeID, document.SlotResignationLetter, in.Letter.Name), in.Letter)
	if err != nil {
		return nil, err
	}

	var (
		saved    *domain.Case
		replaced document.Ref
	)
	submit := func(r uow.Repos) error {
		c, err := r.Cases.GetByEmployeeIDForUpdate(ctx, in.EmployeeID)
		switch {
		case errors.Is(err, domain.ErrNotFound):
			t := in.Type
			if t == "" {
				t = domain.TypeResignation
			}
			c = domain.NewCase(in.EmployeeID, t)
		case err != nil:
			return err
		}
		if err := c.CanSubmitResignation(); err != nil {
			return err
		}
		if err := c.CanResubmitAs(in.Type); err != nil {
			return err
		}
		replaced = c.SubmitResignation(letter, u.now())
		if err := r.Cases.Upsert(ctx, c); err != nil {
			return err
		}
		saved = c
		return nil
	}
	err = u.uow.WithinTx(ctx, submit)
	if errors.Is(err, domain.ErrCaseExists) {
		// a concurrent first submission inserted the row; resubmit over it
		u.log.Info("concurrent first submission, retrying as resubmit", zap.String("employee_id", in.EmployeeID))
		err = u.uow.WithinTx(ctx, submit)
	}
	if err != nil {
		return nil, u.abort(ctx, in.EmployeeID, err, letter)
	}

	u.release(ctx, in.EmployeeID, replaced)
	u.notifyHR(ctx, in.EmployeeID, notification.KindResignationSubmitted, "Resignation submitted",
		fmt.Sprintf("Employee %s submitted a %s request for review.", in.EmployeeID, saved.Type))
	return u.dto(saved, a), nil
}

func (u *Usecase) ApproveResignation(ctx context.Context, a actor.Actor, employeeID string) (*CaseDTO, error) {
	if err := u.authorize(ctx, a, ActionApproveResignation, employeeID); err != nil {
		return nil, err
	}
	c, err := u.mutate(ctx, employeeID, nil, func(_ uow.Repos, c *domain.Case) error {
		if err := c.CanApproveResignation(); err != nil {
			return err
		}
		c.ApproveResignation(a.ID, u.now())
		return nil
	})
	if err != nil {
		return nil, err
	}
	u.notifyEmployee(ctx, employeeID, notification.KindResignationValidated, "Resignation validated",
		"Your resignation has been validated by HR. You can now submit your exit clearance and exit interview forms.")
	return u.dto(c, a), nil
}

// RevertApproval moves a validated resignation back to submitted.
func (u *Usecase) RevertApproval(ctx context.Context, a actor.Actor, employeeID string) (*CaseDTO, error) {
	if err := u.authorize(ctx, a, ActionRevertApproval, employeeID); err != nil {
		return nil, err
	}
	c, err := u.mutate(ctx, employeeID, nil, func(_ uow.Repos, c *domain.Case) error {
		if err := c.CanRevertApproval(); err != nil {
			return err
		}
		c.RevertApproval()
		return nil
	})
	if err != nil {
		return nil, err
	}
	u.log.Info("resignation approval reverted",
		zap.String("employee_id", employeeID),
		zap.String("actor_id", a.ID))
	return u.dto(c, a), nil
}

// InitiateDismissal opens an HR-initiated case that skips the resignation stage.
func (u *Usecase) InitiateDismissal(ctx context.Context, a actor.Actor, employeeID string) (*CaseDTO, error) {
	if err := requireEmployee(employeeID); err != nil {
		return nil, err
	}
	if err := u.authorize(ctx, a, ActionInitiateDismissal, employeeID); err != nil {
		return nil, err
	}
	if _, err := u.directory.Employee(ctx, employeeID); err != nil {
		if errors.Is(err, actor.ErrUnknownAccount) {
			return nil, fmt.Errorf("%w: unknown employee %s", domain.ErrInvalidInput, employeeID)
		}
		return nil, fmt.Errorf("%w: resolve employee: %v", domain.ErrPersistenceFailure, err)
	}

	var saved *domain.Case
	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		existing, err := r.Cases.GetByEmployeeIDForUpdate(ctx, employeeID)
		switch {
		case errors.Is(err, domain.ErrNotFound):
			existing = nil
		case err != nil:
			return err
		}
		if err := existing.CanInitiateDismissal(); err != nil {
			return err
		}
		c := domain.NewCase(employeeID, domain.TypeImmediate)
		c.Dismiss(a.ID, u.now())
		if err := r.Cases.Upsert(ctx, c); err != nil {
			return err
		}
		saved = c
		return nil
	})
	if err != nil {
		return nil, u.abort(ctx, employeeID, err)
	}
	return u.dto(saved, a), nil
}

// ProvideExitForms sets the blank forms HR hands to the employee. Slots
// without an upload fall back to the case's own form, then the global default.
func (u *Usecase) ProvideExitForms(ctx context.Context, a actor.Actor, in ProvideExitFormsInput) (*CaseDTO, error) {
	if err := u.authorize(ctx, a, ActionProvideExitForms, in.EmployeeID); err != nil {
		return nil, err
	}
	current, err := u.load(ctx, in.EmployeeID)
	if err != nil {
		return nil, err
	}
	if err := current.CanProvideExitForms(); err != nil {
		return nil, err
	}

	uploads := map[domain.ExitKind]*document.Ref{}
	var uploaded []document.Ref
	for kind, f := range map[domain.ExitKind]*File{domain.ExitClearance: in.Clearance, domain.ExitInterview: in.Interview} {
		if f.empty() {
			continue
		}
		slot := document.SlotClearanceForm
		if kind == domain.ExitInterview {
			slot = document.SlotInterviewForm
		}
		ref, err := u.upload(ctx, document.ObjectPath(in.EmployeeID, slot, f.Name), *f)
		if err != nil {
			u.release(ctx, in.EmployeeID, uploaded...)
			return nil, err
		}
		uploads[kind] = &ref
		uploaded = append(uploaded, ref)
	}

	var replaced []document.Ref
	c, err := u.mutate(ctx, in.EmployeeID, uploaded, func(r uow.Repos, c *domain.Case) error {
		if err := c.CanProvideExitForms(); err != nil {
			return err
		}
		defaults, err := r.Templates.Get(ctx)
		if err != nil {
			return err
		}
		resolved := 0
		for kind, def := range map[domain.ExitKind]document.Ref{domain.ExitClearance: defaults.Clearance, domain.ExitInterview: defaults.Interview} {
			form, ok := domain.ResolveForm(uploads[kind], *c.Form(kind), def)
			if !ok {
				continue
			}
			resolved++
			replaced = append(replaced, c.ProvideForm(kind, form))
		}
		if resolved == 0 {
			return fmt.Errorf("%w: no exit forms uploaded and no template defaults set", domain.ErrInvalidInput)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	u.release(ctx, in.EmployeeID, replaced...)
	u.notifyEmployee(ctx, in.EmployeeID, notification.KindExitFormsUploaded, "Exit forms available",
		"HR has provided your exit clearance and exit interview forms. Please download, complete, and upload the signed copies.")
	return u.dto(c, a), nil
}

func (u *Usecase) SubmitExitDocument(ctx context.Context, a actor.Actor, in SubmitExitDocumentInput) (*CaseDTO, error) {
	if _, err := domain.ParseExitKind(string(in.Kind)); err != nil {
		return nil, err
	}
	if err := u.authorize(ctx, a, submitAction(in.Kind), in.EmployeeID); err != nil {
		return nil, err
	}
	if in.File.empty() {
		return nil, fmt.Errorf("%w: %s file is required", domain.ErrInvalidInput, exitLabel(in.Kind))
	}
	current, err := u.load(ctx, in.EmployeeID)
	if err != nil {
		return nil, err
	}
	if err := current.CanSubmitExitDocument(in.Kind); err != nil {
		return nil, err
	}

	slot := document.SlotClearance
	if in.Kind == domain.ExitInterview {
		slot = document.SlotInterview
	}
	doc, err := u.upload(ctx, document.ObjectPath(in.EmployeeID, slot, in.File.Name), in.File)
	if err != nil {
		return nil, err
	}

	var replaced document.Ref
	c, err := u.mutate(ctx, in.EmployeeID, []document.Ref{doc}, func(_ uow.Repos, c *domain.Case) error {
		if err := c.CanSubmitExitDocument(in.Kind); err != nil {
			return err
		}
		replaced = c.SubmitExitDocument(in.Kind, doc, u.now())
		return nil
	})
	if err != nil {
		return nil, err
	}

	u.release(ctx, in.EmployeeID, replaced)
	u.notifyHR(ctx, in.EmployeeID, submittedKind(in.Kind), "Exit document submitted",
		fmt.Sprintf("Employee %s submitted their %s for review.", in.EmployeeID, exitLabel(in.Kind)))
	return u.dto(c, a), nil
}

func (u *Usecase) ValidateExitDocument(ctx context.Context, a actor.Actor, employeeID string, kind domain.ExitKind) (*CaseDTO, error) {
	if _, err := domain.ParseExitKind(string(kind)); err != nil {
		return nil, err
	}
	if err := u.authorize(ctx, a, validateAction(kind), employeeID); err != nil {
		return nil, err
	}
	c, err := u.mutate(ctx, employeeID, nil, func(_ uow.Repos, c *domain.Case) error {
		if err := c.CanReviewExitDocument(kind); err != nil {
			return err
		}
		c.ValidateExitDocument(kind, a.ID, u.now())
		return nil
	})
	if err != nil {
		return nil, err
	}
	nk, title, msg := validatedNotice(kind)
	u.notifyEmployee(ctx, employeeID, nk, title, msg)
	return u.dto(c, a), nil
}

// RejectExitDocument demands a resubmission and drops the rejected upload.
func (u *Usecase) RejectExitDocument(ctx context.Context, a actor.Actor, employeeID string, kind domain.ExitKind) (*CaseDTO, error) {
	if _, err := domain.ParseExitKind(string(kind)); err != nil {
		return nil, err
	}
	if err := u.authorize(ctx, a, rejectAction(kind), employeeID); err != nil {
		return nil, err
	}
	var cleared document.Ref
	c, err := u.mutate(ctx, employeeID, nil, func(_ uow.Repos, c *domain.Case) error {
		if err := c.CanReviewExitDocument(kind); err != nil {
			return err
		}
		cleared = c.RejectExitDocument(kind, a.ID, u.now())
		return nil
	})
	if err != nil {
		return nil, err
	}
	u.release(ctx, employeeID, cleared)
	nk, title, msg := resubmissionNotice(kind)
	u.notifyEmployee(ctx, employeeID, nk, title, msg)
	return u.dto(c, a), nil
}

// AttachFinalDocuments appends to the list as persisted at write time, so
// concurrent appends are kept.
func (u *Usecase) AttachFinalDocuments(ctx context.Context, a actor.Actor, in AttachFinalDocumentsInput) (*CaseDTO, error) {
	if err := u.authorize(ctx, a, ActionAttachFinalDocuments, in.EmployeeID); err != nil {
		return nil, err
	}
	if len(in.Files) == 0 {
		return nil, fmt.Errorf("%w: at least one final document is required", domain.ErrInvalidInput)
	}
	for i := range in.Files {
		if in.Files[i].empty() {
			return nil, fmt.Errorf("%w: final document %q is empty", domain.ErrInvalidInput, in.Files[i].Name)
		}
	}
	current, err := u.load(ctx, in.EmployeeID)
	if err != nil {
		return nil, err
	}
	if err := current.CanAttachFinalDocuments(); err != nil {
		return nil, err
	}

	docs := make([]document.Ref, 0, len(in.Files))
	for _, f := range in.Files {
		ref, err := u.upload(ctx, document.ObjectPath(in.EmployeeID, document.SlotFinal, f.Name), f)
		if err != nil {
			u.release(ctx, in.EmployeeID, docs...)
			return nil, err
		}
		docs = append(docs, ref)
	}

	c, err := u.mutate(ctx, in.EmployeeID, docs, func(_ uow.Repos, c *domain.Case) error {
		if err := c.CanAttachFinalDocuments(); err != nil {
			return err
		}
		c.AppendFinalDocuments(docs...)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return u.dto(c, a), nil
}

func (u *Usecase) MarkCompleted(ctx context.Context, a actor.Actor, employeeID string) (*CaseDTO, error) {
	if err := u.authorize(ctx, a, ActionMarkCompleted, employeeID); err != nil {
		return nil, err
	}
	c, err := u.mutate(ctx, employeeID, nil, func(_ uow.Repos, c *domain.Case) error {
		if err := c.CanComplete(); err != nil {
			return err
		}
		c.Complete(u.now())
		return nil
	})
	if err != nil {
		return nil, err
	}
	u.notifyEmployee(ctx, employeeID, notification.KindSeparationCompleted, "Separation completed",
		"Your separation process has been completed. Your final documents are available for download.")
	return u.dto(c, a), nil
}

// Terminate closes the account after a completed separation. The expiry is
// advisory; deactivation happens outside this service.
func (u *Usecase) Terminate(ctx context.Context, a actor.Actor, in TerminateInput) (*CaseDTO, error) {
	if err := u.authorize(ctx, a, ActionTerminate, in.EmployeeID); err != nil {
		return nil, err
	}
	current, err := u.load(ctx, in.EmployeeID)
	if err != nil {
		return nil, err
	}
	if err := current.CanTerminate(); err != nil {
		return nil, err
	}

	var doc document.Ref
	if !in.Document.empty() {
		doc, err = u.upload(ctx, document.ObjectPath(in.EmployeeID, document.SlotTermination, in.Document.Name), *in.Document)
		if err != nil {
			return nil, err
		}
	}

	c, err := u.mutate(ctx, in.EmployeeID, []document.Ref{doc}, func(_ uow.Repos, c *domain.Case) error {
		if err := c.CanTerminate(); err != nil {
			return err
		}
		c.Terminate(doc, u.now(), u.grace)
		return nil
	})
	if err != nil {
		return nil, err
	}
	u.notifyEmployee(ctx, in.EmployeeID, notification.KindAccountTermination, "Account termination",
		fmt.Sprintf("Your employment has been terminated. Your account will remain accessible until %s.",
			c.AccountExpiresAt.Format("2006-01-02 15:04 MST")))
	return u.dto(c, a), nil
}

// DeleteCase withdraws a request that has not been validated yet.
func (u *Usecase) DeleteCase(ctx context.Context, a actor.Actor, employeeID string) error {
	if err := u.authorize(ctx, a, ActionDeleteCase, employeeID); err != nil {
		return err
	}
	var owned []document.Ref
	err := u.uow.WithinCaseTx(ctx, employeeID, func(r uow.Repos, c *domain.Case) error {
		if err := c.CanDelete(); err != nil {
			return err
		}
		owned = c.References()
		return r.Cases.Delete(ctx, employeeID)
	})
	if err != nil {
		return u.abort(ctx, employeeID, err)
	}
	u.release(ctx, employeeID, owned...)
	return nil
}

func (u *Usecase) GetCase(ctx context.Context, a actor.Actor, employeeID string) (*CaseDTO, error) {
	if err := u.authorize(ctx, a, ActionViewCase, employeeID); err != nil {
		return nil, err
	}
	c, err := u.load(ctx, employeeID)
	if err != nil {
		return nil, err
	}
	return u.dto(c, a), nil
}

// ListCases serves the HR queue.
func (u *Usecase) ListCases(ctx context.Context, a actor.Actor, in ListInput) ([]*CaseDTO, error) {
	if err := u.authorize(ctx, a, ActionListCases, ""); err != nil {
		return nil, err
	}
	cases, err := u.cases.List(ctx, domain.ListFilter(in))
	if err != nil {
		return nil, fmt.Errorf("%w: list cases: %v", domain.ErrPersistenceFailure, err)
	}
	out := make([]*CaseDTO, 0, len(cases))
	for i := range cases {
		out = append(out, u.dto(&cases[i], a))
	}
	return out, nil
}

// DownloadDocument returns a document referenced by the employee's case.
func (u *Usecase) DownloadDocument(ctx context.Context, a actor.Actor, employeeID, handle string) ([]byte, document.Ref, error) {
	if err := u.authorize(ctx, a, ActionViewCase, employeeID); err != nil {
		return nil, document.Ref{}, err
	}
	c, err := u.load(ctx, employeeID)
	if err != nil {
		return nil, document.Ref{}, err
	}
	ref, ok := c.Lookup(handle)
	if !ok {
		return nil, document.Ref{}, fmt.Errorf("%w: document %q is not part of this case", domain.ErrNotFound, handle)
	}
	content, err := u.store.Get(ctx, ref.Handle)
	switch {
	case errors.Is(err, document.ErrObjectNotFound):
		return nil, document.Ref{}, fmt.Errorf("%w: document %q missing from storage", domain.ErrNotFound, handle)
	case err != nil:
		return nil, document.Ref{}, fmt.Errorf("%w: download %s: %v", domain.ErrStorageFailure, handle, err)
	}
	return content, ref, nil
}

// SetTemplateDefaults replaces the global exit-form templates. Previous
// template objects are kept since cases may still reference them.
func (u *Usecase) SetTemplateDefaults(ctx context.Context, a actor.Actor, in SetTemplateDefaultsInput) (*template.Defaults, error) {
	if err := u.authorize(ctx, a, ActionManageTemplates, ""); err != nil {
		return nil, err
	}
	if in.Clearance.empty() && in.Interview.empty() {
		return nil, fmt.Errorf("%w: at least one template file is required", domain.ErrInvalidInput)
	}

	var clearance, interview document.Ref
	var err error
	if !in.Clearance.empty() {
		if clearance, err = u.upload(ctx, document.TemplatePath(document.SlotClearanceForm, in.Clearance.Name), *in.Clearance); err != nil {
			return nil, err
		}
	}
	if !in.Interview.empty() {
		if interview, err = u.upload(ctx, document.TemplatePath(document.SlotInterviewForm, in.Interview.Name), *in.Interview); err != nil {
			u.release(ctx, "", clearance)
			return nil, err
		}
	}

	var saved *template.Defaults
	err = u.uow.WithinTx(ctx, func(r uow.Repos) error {
		d, err := r.Templates.Get(ctx)
		if err != nil {
			return err
		}
		if !clearance.IsZero() {
			d.Clearance = clearance
		}
		if !interview.IsZero() {
			d.Interview = interview
		}
		d.ID = template.SingletonID
		d.UpdatedBy = a.ID
		if err := r.Templates.Save(ctx, d); err != nil {
			return err
		}
		saved = d
		return nil
	})
	if err != nil {
		return nil, u.abort(ctx, "", err, clearance, interview)
	}
	return saved, nil
}

func (u *Usecase) GetTemplateDefaults(ctx context.Context, a actor.Actor) (*template.Defaults, error) {
	if err := u.authorize(ctx, a, ActionManageTemplates, ""); err != nil {
		return nil, err
	}
	d, err := u.templates.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: load templates: %v", domain.ErrPersistenceFailure, err)
	}
	return d, nil
}
