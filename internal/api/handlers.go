package api

import (
	"bytes"
	"errors"
	"io"
	"net/http"
	"slices"
	"strings"

	"fjacquet/swift-mt/internal/common"
	"fjacquet/swift-mt/internal/jsonmap"
	"fjacquet/swift-mt/internal/logging"
	"fjacquet/swift-mt/internal/messages"
	"fjacquet/swift-mt/internal/models"
	"fjacquet/swift-mt/internal/parser"
	"fjacquet/swift-mt/internal/parsererror"
	"fjacquet/swift-mt/internal/report"

	"github.com/gin-gonic/gin"
)

// errorResponse is the body of every failed request.
type errorResponse struct {
	Error  string                   `json:"error"`
	Kind   string                   `json:"kind,omitempty"`
	Report *parser.ValidationReport `json:"report,omitempty"`
}

type validateResponse struct {
	Valid   bool                       `json:"valid"`
	Reports []*parser.ValidationReport `json:"reports"`
	Summary *report.ValidationSummary  `json:"summary"`
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) handleTypes(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"types": messages.SupportedTypes()})
}

// handleParse parses the messages of the body and answers with their JSON
// documents.
func (s *Server) handleParse(c *gin.Context) {
	msgs, ok := s.parseBody(c)
	if !ok {
		return
	}
	docs := make([]*jsonmap.Document, 0, len(msgs))
	for _, msg := range msgs {
		doc, err := jsonmap.FromMessage(msg)
		if err != nil {
			s.fail(c, http.StatusInternalServerError, err)
			return
		}
		docs = append(docs, doc)
	}
	c.JSON(http.StatusOK, gin.H{"messages": docs})
}

// handleValidate parses the body and reports the rule violations of each
// message. Violations are not an HTTP error.
func (s *Server) handleValidate(c *gin.Context) {
	msgs, ok := s.parseBody(c)
	if !ok {
		return
	}
	resp := validateResponse{Valid: true, Reports: make([]*parser.ValidationReport, 0, len(msgs))}
	for _, msg := range msgs {
		r := s.parser.Validate(msg)
		resp.Valid = resp.Valid && r.Valid()
		resp.Reports = append(resp.Reports, r)
	}
	resp.Summary = s.reports.SummarizeValidation(resp.Reports)
	c.JSON(http.StatusOK, resp)
}

// handleConvert converts the body according to the format query parameter:
// csv and xlsx export statement lines, mt turns a JSON document back into the
// wire format and json is the same as /parse.
func (s *Server) handleConvert(c *gin.Context) {
	format := strings.ToLower(c.DefaultQuery("format", "csv"))
	switch format {
	case "json":
		s.handleParse(c)
	case "mt":
		s.convertToMT(c)
	case "csv", "xlsx":
		s.convertStatements(c, format)
	default:
		c.JSON(http.StatusBadRequest, errorResponse{Error: "unsupported format: " + format})
	}
}

func (s *Server) convertToMT(c *gin.Context) {
	body, ok := s.readBody(c)
	if !ok {
		return
	}
	raw, err := jsonmap.ToMT(body)
	if err != nil {
		s.fail(c, http.StatusUnprocessableEntity, err)
		return
	}
	c.Data(http.StatusOK, "text/plain; charset=utf-8", []byte(raw))
}

func (s *Server) convertStatements(c *gin.Context, format string) {
	statements, ok := s.statementsFromBody(c)
	if !ok {
		return
	}
	rows := []models.StatementRow{}
	for _, st := range statements {
		rows = append(rows, st.Rows...)
	}

	if format == "xlsx" {
		data, err := common.StatementRowsXLSX(rows)
		if err != nil {
			s.fail(c, http.StatusInternalServerError, err)
			return
		}
		c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", data)
		return
	}

	var buf bytes.Buffer
	if err := common.MarshalStatementRows(rows, &buf, s.opts.CSV); err != nil {
		s.fail(c, http.StatusInternalServerError, err)
		return
	}
	c.Data(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
}

// handleSummary answers with the account summary of the statements in the
// body, as JSON or YAML.
func (s *Server) handleSummary(c *gin.Context) {
	format := strings.ToLower(c.DefaultQuery("format", report.FormatJSON))
	if format != report.FormatJSON && format != report.FormatYAML {
		c.JSON(http.StatusBadRequest, errorResponse{Error: "unsupported format: " + format})
		return
	}
	statements, ok := s.statementsFromBody(c)
	if !ok {
		return
	}
	summary := s.reports.Summarize("", statements, nil)
	if format == report.FormatJSON {
		c.JSON(http.StatusOK, summary)
		return
	}
	data, err := s.reports.GenerateReport(summary, format)
	if err != nil {
		s.fail(c, http.StatusInternalServerError, err)
		return
	}
	c.Data(http.StatusOK, "application/yaml", data)
}

func (s *Server) statementsFromBody(c *gin.Context) ([]*models.Statement, bool) {
	msgs, ok := s.parseBody(c)
	if !ok {
		return nil, false
	}
	var statements []*models.Statement
	for _, msg := range msgs {
		if !slices.Contains(common.StatementTypes, msg.MessageType) {
			c.JSON(http.StatusUnprocessableEntity, errorResponse{
				Error: "MT" + msg.MessageType + " is not a statement message",
				Kind:  parsererror.KindMessage.String(),
			})
			return nil, false
		}
		st, err := common.StatementFromMessage(msg, s.opts.DateFormat)
		if err != nil {
			s.fail(c, http.StatusUnprocessableEntity, err)
			return nil, false
		}
		statements = append(statements, st)
	}
	return statements, true
}

func (s *Server) readBody(c *gin.Context) ([]byte, bool) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			c.JSON(http.StatusRequestEntityTooLarge, errorResponse{Error: "request body too large"})
			return nil, false
		}
		s.fail(c, http.StatusBadRequest, err)
		return nil, false
	}
	return body, true
}

// parseBody parses every message of the request body. On failure it writes
// the response and returns false.
func (s *Server) parseBody(c *gin.Context) ([]*messages.SwiftMessage, bool) {
	body, ok := s.readBody(c)
	if !ok {
		return nil, false
	}
	parts := parser.SplitMessages(string(body))
	if len(parts) == 0 {
		c.JSON(http.StatusBadRequest, errorResponse{Error: "no message found in request body"})
		return nil, false
	}
	msgs := make([]*messages.SwiftMessage, 0, len(parts))
	for _, part := range parts {
		msg, err := s.parser.ParseString(part)
		if err != nil {
			s.fail(c, http.StatusUnprocessableEntity, err)
			return nil, false
		}
		msgs = append(msgs, msg)
	}
	return msgs, true
}

func (s *Server) fail(c *gin.Context, status int, err error) {
	resp := errorResponse{Error: err.Error(), Kind: parsererror.KindOf(err).String()}
	var failed *parser.ValidationFailedError
	if errors.As(err, &failed) {
		resp.Report = failed.Report
	}
	s.logger.WithError(err).Info("Request failed",
		logging.Field{Key: "path", Value: c.Request.URL.Path},
		logging.Field{Key: logging.FieldStatus, Value: status})
	c.JSON(status, resp)
}
