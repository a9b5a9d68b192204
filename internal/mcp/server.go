// Package mcp exposes the conversion pipeline as Model Context Protocol
// tools over stdio.
package mcp

import (
	"context"
	"fmt"
	"log"
	"sort"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/quoteparse/quote-extractor/internal/config"
	"github.com/quoteparse/quote-extractor/internal/convert"
	"github.com/quoteparse/quote-extractor/internal/engine"
)

// Converter is the conversion surface the tools call. Satisfied by
// convert.Service.
type Converter interface {
	ExtractFile(path, masterPath string) (*convert.Outcome, error)
	ConvertFile(inputPath, outputPath, masterPath string) (*convert.Outcome, error)
	ClassifyFile(path string) (engine.TemplateKind, map[engine.TemplateKind]int, error)
}

// Server represents the MCP server instance
type Server struct {
	config    *config.Config
	converter Converter
	mcpServer *server.MCPServer
}

// NewServer creates a new MCP server instance
func NewServer(cfg *config.Config, converter Converter) (*Server, error) {
	if converter == nil {
		return nil, fmt.Errorf("converter cannot be nil")
	}

	mcpServer := server.NewMCPServer(
		cfg.ServerName,
		cfg.Version,
		server.WithToolCapabilities(false), // We don't support dynamic tool capabilities
	)

	s := &Server{
		config:    cfg,
		converter: converter,
		mcpServer: mcpServer,
	}

	s.registerTools()

	return s, nil
}

// registerTools registers all available MCP tools
func (s *Server) registerTools() {
	extractTool := mcp.NewTool(
		"quote_extract_file",
		mcp.WithDescription("Classify a vendor quotation PDF and extract its normalized line items"),
		mcp.WithString("path",
			mcp.Required(),
			mcp.Description("Full path to the quotation PDF"),
		),
		mcp.WithString("master_path",
			mcp.Description("Optional master price list (CSV or XLSX) used to correct descriptions"),
		),
	)
	s.mcpServer.AddTool(extractTool, s.handleQuoteExtractFile)

	convertTool := mcp.NewTool(
		"quote_convert_file",
		mcp.WithDescription("Convert a vendor quotation PDF into a styled XLSX quotation workbook"),
		mcp.WithString("path",
			mcp.Required(),
			mcp.Description("Full path to the quotation PDF"),
		),
		mcp.WithString("output_path",
			mcp.Required(),
			mcp.Description("Path the workbook is written to"),
		),
		mcp.WithString("master_path",
			mcp.Description("Optional master price list (CSV or XLSX) used to correct descriptions"),
		),
	)
	s.mcpServer.AddTool(convertTool, s.handleQuoteConvertFile)

	classifyTool := mcp.NewTool(
		"quote_classify_file",
		mcp.WithDescription("Report the layout family of a quotation PDF without extracting records"),
		mcp.WithString("path",
			mcp.Required(),
			mcp.Description("Full path to the quotation PDF"),
		),
	)
	s.mcpServer.AddTool(classifyTool, s.handleQuoteClassifyFile)
}

// Handler functions
func (s *Server) handleQuoteExtractFile(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := request.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	masterPath := optionalString(request, "master_path")

	out, err := s.converter.ExtractFile(path, masterPath)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatOutcome(out)), nil
}

func (s *Server) handleQuoteConvertFile(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := request.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	outputPath, err := request.RequireString("output_path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	masterPath := optionalString(request, "master_path")

	out, err := s.converter.ConvertFile(path, outputPath, masterPath)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	responseText := fmt.Sprintf("Workbook written to %s\n\n%s", out.OutputPath, formatOutcome(out))
	return mcp.NewToolResultText(responseText), nil
}

func (s *Server) handleQuoteClassifyFile(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := request.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	kind, counts, err := s.converter.ClassifyFile(path)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Layout: %s\n", kind)
	sb.WriteString("Boundary counts:\n")
	kinds := make([]string, 0, len(counts))
	for k := range counts {
		kinds = append(kinds, string(k))
	}
	sort.Strings(kinds)
	for _, k := range kinds {
		fmt.Fprintf(&sb, "  %s: %d\n", k, counts[engine.TemplateKind(k)])
	}
	return mcp.NewToolResultText(sb.String()), nil
}

func optionalString(request mcp.CallToolRequest, key string) string {
	args := request.GetArguments()
	if v, ok := args[key].(string); ok {
		return v
	}
	return ""
}

// formatOutcome renders one run as the tool's text payload.
func formatOutcome(out *convert.Outcome) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "Job: %s\n", out.JobID)
	fmt.Fprintf(&sb, "Layout: %s\n", out.Kind)
	fmt.Fprintf(&sb, "Logical items: %d\n", out.Items)

	if len(out.Header) > 0 {
		sb.WriteString("\nHeader fields:\n")
		labels := make([]string, 0, len(out.Header))
		for label := range out.Header {
			labels = append(labels, label)
		}
		sort.Strings(labels)
		for _, label := range labels {
			fmt.Fprintf(&sb, "  %s: %s\n", label, out.Header[label])
		}
	}

	if out.Result != nil && len(out.Result.Records) > 0 {
		sb.WriteString("\nRecords:\n")
		for i, rec := range out.Result.Records {
			fmt.Fprintf(&sb, "  %d. %s qty=%d", i+1, rec.Identifier, rec.Quantity)
			if !rec.Months.IsZero() {
				fmt.Fprintf(&sb, " months=%d-%d", rec.Months.Start, rec.Months.End)
			}
			if !rec.StartDate.IsZero() {
				fmt.Fprintf(&sb, " coverage=%s..%s",
					rec.StartDate.Format("02-Jan-2006"), rec.EndDate.Format("02-Jan-2006"))
			}
			fmt.Fprintf(&sb, " total=%.2f", rec.Total())
			if rec.NeedsReview {
				sb.WriteString(" NEEDS REVIEW")
			}
			sb.WriteString("\n")
		}
	}

	r := out.Report
	fmt.Fprintf(&sb, "\nReport: boundaries=%d emitted=%d dropped=%d qty_fallbacks=%d "+
		"range_fallbacks=%d missing_amounts=%d all_zero_amounts=%d\n",
		r.Boundaries, r.Emitted, r.DroppedNoID, r.QuantityFallbacks,
		r.RangeFallbacks, r.MissingAmounts, r.AllZeroAmounts)

	return sb.String()
}

// Run starts the MCP server over stdio
func (s *Server) Run(ctx context.Context) error {
	return s.runStdioMode(ctx)
}

// runStdioMode runs the server in stdio mode
func (s *Server) runStdioMode(_ context.Context) error {
	if s.config.IsDebug() {
		log.Printf("Starting quote extractor MCP server in stdio mode")
		log.Printf("Quote directory: %s", s.config.QuoteDirectory)
	}

	if err := server.ServeStdio(s.mcpServer); err != nil {
		return fmt.Errorf("failed to serve stdio: %w", err)
	}
	return nil
}
