package web

import (
	"errors"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/go-chi/chi/v5"

	"compta-billing-platform/internal/domain"
	"compta-billing-platform/internal/domain/model"
	"compta-billing-platform/internal/infra/metrics"
)

// maxUploadBytes bounds multipart memory/disk use per request.
const maxUploadBytes = 64 << 20

// formFile extracts the uploaded file from a multipart request. The field is
// named "document"; "file" and "document_justificatif" are accepted for
// older clients.
func formFile(w http.ResponseWriter, r *http.Request) (multipart.File, *multipart.FileHeader, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeError(w, http.StatusBadRequest, "requête multipart invalide", nil)
		return nil, nil, false
	}
	for _, field := range []string{"document", "file", "document_justificatif"} {
		if file, header, err := r.FormFile(field); err == nil {
			return file, header, true
		}
	}
	writeError(w, http.StatusUnprocessableEntity, "validation échouée", map[string]string{"document": "fichier requis"})
	return nil, nil, false
}

func (s *Server) handleDocumentList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	claims := claimsFrom(ctx)

	companyID := r.URL.Query().Get("id_entreprise")
	if claims.Role == string(model.RoleCompany) {
		companyID = claims.CompanyID
	}
	if companyID == "" {
		writeError(w, http.StatusUnprocessableEntity, "paramètre id_entreprise requis", nil)
		return
	}
	if !s.companyManagedByCaller(w, r, companyID) {
		return
	}

	docs, err := s.docUC.ListForCompany(ctx, companyID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	used, err := s.docUC.StorageUsed(ctx, companyID)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	out := make([]documentResponse, 0, len(docs))
	for _, d := range docs {
		out = append(out, toDocumentResponse(d))
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"data": out, "espace_utilise": used})
}

func (s *Server) handleDocumentUpload(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	claims := claimsFrom(ctx)

	file, header, ok := formFile(w, r)
	if !ok {
		return
	}
	defer file.Close()

	companyID := r.FormValue("id_entreprise")
	if claims.Role == string(model.RoleCompany) {
		companyID = claims.CompanyID
	}
	if companyID == "" {
		writeError(w, http.StatusUnprocessableEntity, "validation échouée", map[string]string{"id_entreprise": "ce champ est requis"})
		return
	}
	if !s.companyManagedByCaller(w, r, companyID) {
		return
	}

	label := r.FormValue("label")
	mimeType := header.Header.Get("Content-Type")
	doc, err := s.docUC.Upload(ctx, companyID, claims.UserID(), label, header.Filename, mimeType, file)
	if err != nil {
		outcome := "failed"
		if errors.Is(err, domain.ErrQuotaExceeded) {
			outcome = "quota_exceeded"
		}
		metrics.ObserveDocumentUpload(header.Size, outcome)
		writeDomainError(w, err)
		return
	}
	metrics.ObserveDocumentUpload(doc.SizeBytes, "stored")
	writeJSON(w, http.StatusCreated, toDocumentResponse(doc))
}

func (s *Server) handleDocumentGet(w http.ResponseWriter, r *http.Request) {
	doc, ok := s.documentForCaller(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, toDocumentResponse(doc))
}

func (s *Server) handleDocumentDownload(w http.ResponseWriter, r *http.Request) {
	if _, ok := s.documentForCaller(w, r); !ok {
		return
	}

	doc, rc, err := s.docUC.Open(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	defer rc.Close()

	if doc.MimeType != "" {
		w.Header().Set("Content-Type", doc.MimeType)
	} else {
		w.Header().Set("Content-Type", "application/octet-stream")
	}
	w.Header().Set("Content-Disposition", `attachment; filename="`+doc.Label+`"`)
	io.Copy(w, rc)
}

func (s *Server) handleDocumentDelete(w http.ResponseWriter, r *http.Request) {
	if _, ok := s.documentForCaller(w, r); !ok {
		return
	}
	if err := s.docUC.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) documentForCaller(w http.ResponseWriter, r *http.Request) (*model.Document, bool) {
	doc, err := s.docUC.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, err)
		return nil, false
	}
	if !s.companyManagedByCaller(w, r, doc.CompanyID) {
		return nil, false
	}
	return doc, true
}
