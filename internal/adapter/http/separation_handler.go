package http

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"path"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"separation-engine/internal/adapter/middleware"
	"separation-engine/internal/domain/actor"
	domain "separation-engine/internal/domain/separation"
	uc "separation-engine/internal/usecase/separation"
)

// maxUploadBytes caps a single uploaded file. The whole request is capped by the BodyLimit middleware.
const maxUploadBytes = 20 << 20

type SeparationHandler struct {
	uc  *uc.Usecase
	log *zap.Logger
}

func NewSeparationHandler(u *uc.Usecase, logger *zap.Logger) *SeparationHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SeparationHandler{uc: u, log: logger}
}

type employeeParam struct {
	EmployeeID string `validate:"required,accountid"`
}

type exitDocParam struct {
	EmployeeID string `validate:"required,accountid"`
	Kind       string `validate:"required,exitkind"`
}

type listQuery struct {
	ResignationStatus string `validate:"omitempty,oneof=none submitted validated"`
	Completed         string `validate:"omitempty,boolean"`
	Terminated        string `validate:"omitempty,boolean"`
	ExpiresBefore     string `validate:"omitempty,rfc3339"`
	Limit             int    `validate:"gte=0,lte=200"`
	Offset            int    `validate:"gte=0"`
}

type downloadQuery struct {
	EmployeeID string `validate:"required,accountid"`
	Handle     string `validate:"required"`
}

// employee validates the :employee_id path param.
func (h *SeparationHandler) employee(c echo.Context) (string, bool, error) {
	p := employeeParam{EmployeeID: c.Param("employee_id")}
	if err := c.Validate(&p); err != nil {
		return "", false, invalid(c, err)
	}
	return p.EmployeeID, true, nil
}

func (h *SeparationHandler) exitDoc(c echo.Context) (string, domain.ExitKind, bool, error) {
	p := exitDocParam{EmployeeID: c.Param("employee_id"), Kind: c.Param("kind")}
	if err := c.Validate(&p); err != nil {
		return "", "", false, invalid(c, err)
	}
	return p.EmployeeID, domain.ExitKind(p.Kind), true, nil
}

func caller(c echo.Context) (actor.Actor, bool, error) {
	a, ok := middleware.ActorFrom(c)
	if !ok {
		return actor.Actor{}, false, c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "missing actor", Kind: "unauthorized"})
	}
	return a, true, nil
}

// SubmitResignation handles POST /separations/:employee_id/resignation.
func (h *SeparationHandler) SubmitResignation(c echo.Context) error {
	who, ok, err := caller(c)
	if !ok {
		return err
	}
	empID, ok, err := h.employee(c)
	if !ok {
		return err
	}
	letter, err := formFile(c, "letter")
	if err != nil {
		return badUpload(c, err)
	}
	in := uc.SubmitResignationInput{EmployeeID: empID, Type: domain.Type(c.FormValue("type"))}
	if letter != nil {
		in.Letter = *letter
	}
	dto, err := h.uc.SubmitResignation(c.Request().Context(), who, in)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusCreated, dto)
}

func (h *SeparationHandler) ApproveResignation(c echo.Context) error {
	return h.simple(c, h.uc.ApproveResignation)
}

func (h *SeparationHandler) RevertApproval(c echo.Context) error {
	return h.simple(c, h.uc.RevertApproval)
}

func (h *SeparationHandler) InitiateDismissal(c echo.Context) error {
	who, ok, err := caller(c)
	if !ok {
		return err
	}
	empID, ok, err := h.employee(c)
	if !ok {
		return err
	}
	dto, err := h.uc.InitiateDismissal(c.Request().Context(), who, empID)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusCreated, dto)
}

func (h *SeparationHandler) MarkCompleted(c echo.Context) error {
	return h.simple(c, h.uc.MarkCompleted)
}

// ProvideExitForms handles PUT /separations/:employee_id/exit-forms. Both parts are optional.
func (h *SeparationHandler) ProvideExitForms(c echo.Context) error {
	who, ok, err := caller(c)
	if !ok {
		return err
	}
	empID, ok, err := h.employee(c)
	if !ok {
		return err
	}
	clearance, err := formFile(c, "clearance")
	if err != nil {
		return badUpload(c, err)
	}
	interview, err := formFile(c, "interview")
	if err != nil {
		return badUpload(c, err)
	}
	dto, err := h.uc.ProvideExitForms(c.Request().Context(), who, uc.ProvideExitFormsInput{
		EmployeeID: empID,
		Clearance:  clearance,
		Interview:  interview,
	})
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}

// SubmitExitDocument handles POST /separations/:employee_id/exit-documents/:kind.
func (h *SeparationHandler) SubmitExitDocument(c echo.Context) error {
	who, ok, err := caller(c)
	if !ok {
		return err
	}
	empID, kind, ok, err := h.exitDoc(c)
	if !ok {
		return err
	}
	f, err := formFile(c, "file")
	if err != nil {
		return badUpload(c, err)
	}
	in := uc.SubmitExitDocumentInput{EmployeeID: empID, Kind: kind}
	if f != nil {
		in.File = *f
	}
	dto, err := h.uc.SubmitExitDocument(c.Request().Context(), who, in)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}

func (h *SeparationHandler) ValidateExitDocument(c echo.Context) error {
	return h.review(c, h.uc.ValidateExitDocument)
}

func (h *SeparationHandler) RejectExitDocument(c echo.Context) error {
	return h.review(c, h.uc.RejectExitDocument)
}

// AttachFinalDocuments handles POST /separations/:employee_id/final-documents (repeated "files" parts).
func (h *SeparationHandler) AttachFinalDocuments(c echo.Context) error {
	who, ok, err := caller(c)
	if !ok {
		return err
	}
	empID, ok, err := h.employee(c)
	if !ok {
		return err
	}
	files, err := formFiles(c, "files")
	if err != nil {
		return badUpload(c, err)
	}
	dto, err := h.uc.AttachFinalDocuments(c.Request().Context(), who, uc.AttachFinalDocumentsInput{
		EmployeeID: empID,
		Files:      files,
	})
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}

// Terminate handles POST /separations/:employee_id/terminate with an optional "document" part.
func (h *SeparationHandler) Terminate(c echo.Context) error {
	who, ok, err := caller(c)
	if !ok {
		return err
	}
	empID, ok, err := h.employee(c)
	if !ok {
		return err
	}
	doc, err := formFile(c, "document")
	if err != nil {
		return badUpload(c, err)
	}
	dto, err := h.uc.Terminate(c.Request().Context(), who, uc.TerminateInput{EmployeeID: empID, Document: doc})
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}

func (h *SeparationHandler) DeleteCase(c echo.Context) error {
	who, ok, err := caller(c)
	if !ok {
		return err
	}
	empID, ok, err := h.employee(c)
	if !ok {
		return err
	}
	if err := h.uc.DeleteCase(c.Request().Context(), who, empID); err != nil {
		return h.fail(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *SeparationHandler) GetCase(c echo.Context) error {
	return h.simple(c, h.uc.GetCase)
}

// ListCases handles GET /separations.
func (h *SeparationHandler) ListCases(c echo.Context) error {
	who, ok, err := caller(c)
	if !ok {
		return err
	}
	q := listQuery{
		ResignationStatus: c.QueryParam("resignation_status"),
		Completed:         c.QueryParam("completed"),
		Terminated:        c.QueryParam("terminated"),
		ExpiresBefore:     c.QueryParam("expires_before"),
	}
	var badNum []FieldError
	if q.Limit, err = queryInt(c, "limit"); err != nil {
		badNum = append(badNum, FieldError{Field: "Limit", Message: "must be an integer"})
	}
	if q.Offset, err = queryInt(c, "offset"); err != nil {
		badNum = append(badNum, FieldError{Field: "Offset", Message: "must be an integer"})
	}
	if len(badNum) > 0 {
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{Error: "validation failed", Kind: "invalid_input", Details: badNum})
	}
	if err := c.Validate(&q); err != nil {
		return invalid(c, err)
	}

	in := uc.ListInput{Limit: q.Limit, Offset: q.Offset}
	if q.ResignationStatus != "" {
		s := domain.ResignationStatus(q.ResignationStatus)
		in.ResignationStatus = &s
	}
	in.Completed = parseBoolPtr(q.Completed)
	in.Terminated = parseBoolPtr(q.Terminated)
	if q.ExpiresBefore != "" {
		t, _ := time.Parse(time.RFC3339, q.ExpiresBefore)
		t = t.UTC()
		in.ExpiresBefore = &t
	}

	cases, err := h.uc.ListCases(c.Request().Context(), who, in)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{"items": cases, "count": len(cases)})
}

// DownloadDocument handles GET /separations/:employee_id/documents?handle=.
func (h *SeparationHandler) DownloadDocument(c echo.Context) error {
	who, ok, err := caller(c)
	if !ok {
		return err
	}
	q := downloadQuery{EmployeeID: c.Param("employee_id"), Handle: c.QueryParam("handle")}
	if err := c.Validate(&q); err != nil {
		return invalid(c, err)
	}
	content, ref, err := h.uc.DownloadDocument(c.Request().Context(), who, q.EmployeeID, q.Handle)
	if err != nil {
		return h.fail(c, err)
	}
	ct := mime.TypeByExtension(path.Ext(ref.Name))
	if ct == "" {
		ct = echo.MIMEOctetStream
	}
	c.Response().Header().Set(echo.HeaderContentDisposition, mime.FormatMediaType("attachment", map[string]string{"filename": ref.Name}))
	return c.Blob(http.StatusOK, ct, content)
}

// SetTemplateDefaults handles PUT /templates/exit-forms.
func (h *SeparationHandler) SetTemplateDefaults(c echo.Context) error {
	who, ok, err := caller(c)
	if !ok {
		return err
	}
	clearance, err := formFile(c, "clearance")
	if err != nil {
		return badUpload(c, err)
	}
	interview, err := formFile(c, "interview")
	if err != nil {
		return badUpload(c, err)
	}
	d, err := h.uc.SetTemplateDefaults(c.Request().Context(), who, uc.SetTemplateDefaultsInput{
		Clearance: clearance,
		Interview: interview,
	})
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, d)
}

func (h *SeparationHandler) GetTemplateDefaults(c echo.Context) error {
	who, ok, err := caller(c)
	if !ok {
		return err
	}
	d, err := h.uc.GetTemplateDefaults(c.Request().Context(), who)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, d)
}

// simple runs an operation that takes only the employee id.
func (h *SeparationHandler) simple(c echo.Context, op func(ctx context.Context, a actor.Actor, employeeID string) (*uc.CaseDTO, error)) error {
	who, ok, err := caller(c)
	if !ok {
		return err
	}
	empID, ok, err := h.employee(c)
	if !ok {
		return err
	}
	dto, err := op(c.Request().Context(), who, empID)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}

func (h *SeparationHandler) review(c echo.Context, op func(ctx context.Context, a actor.Actor, employeeID string, kind domain.ExitKind) (*uc.CaseDTO, error)) error {
	who, ok, err := caller(c)
	if !ok {
		return err
	}
	empID, kind, ok, err := h.exitDoc(c)
	if !ok {
		return err
	}
	dto, err := op(c.Request().Context(), who, empID, kind)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}

// ---- multipart ----

var errFileTooLarge = fmt.Errorf("file exceeds %d bytes", maxUploadBytes)

func isMissing(err error) bool {
	return errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart)
}

// formFile reads an optional part. A missing part, or a body that is not
// multipart at all, yields nil.
func formFile(c echo.Context, field string) (*uc.File, error) {
	fh, err := c.FormFile(field)
	if isMissing(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return readPart(fh)
}

func formFiles(c echo.Context, field string) ([]uc.File, error) {
	form, err := c.MultipartForm()
	if isMissing(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	out := make([]uc.File, 0, len(form.File[field]))
	for _, fh := range form.File[field] {
		f, err := readPart(fh)
		if err != nil {
			return nil, err
		}
		out = append(out, *f)
	}
	return out, nil
}

func readPart(fh *multipart.FileHeader) (*uc.File, error) {
	if fh.Size > maxUploadBytes {
		return nil, errFileTooLarge
	}
	src, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer src.Close()
	content, err := io.ReadAll(io.LimitReader(src, maxUploadBytes+1))
	if err != nil {
		return nil, err
	}
	if len(content) > maxUploadBytes {
		return nil, errFileTooLarge
	}
	return &uc.File{Name: path.Base(fh.Filename), Content: content}, nil
}

func badUpload(c echo.Context, err error) error {
	if errors.Is(err, errFileTooLarge) {
		return c.JSON(http.StatusRequestEntityTooLarge, ErrorResponse{Error: err.Error(), Kind: "invalid_input"})
	}
	return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid multipart body: " + err.Error(), Kind: "invalid_input"})
}

func queryInt(c echo.Context, name string) (int, error) {
	v := c.QueryParam(name)
	if v == "" {
		return 0, nil
	}
	return strconv.Atoi(v)
}

func parseBoolPtr(s string) *bool {
	if s == "" {
		return nil
	}
	b, _ := strconv.ParseBool(s)
	return &b
}
