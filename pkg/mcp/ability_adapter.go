// Copyright 2026 © The Inkwell Authors
// SPDX-License-Identifier: Apache-2.0

package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/inkwell-cms/inkwell/pkg/ability"
	"github.com/inkwell-cms/inkwell/pkg/capability"
	inkerrors "github.com/inkwell-cms/inkwell/pkg/errors"
)

// Invoker is the registry surface the adapter needs.
type Invoker interface {
	List(filter ability.ListFilter) []*ability.Definition
	Invoke(ctx context.Context, id ability.ID, raw map[string]any, caller capability.Caller) (any, error)
}

// RegisterAbilities exposes every public ability of the registry as an MCP
// tool. The caller identity is fixed at registration time: a headless
// adapter acts as one configured principal.
func (s *Server) RegisterAbilities(reg Invoker, caller capability.Caller) error {
	if reg == nil {
		return errors.New("registry is required")
	}
	if caller == nil {
		return errors.New("caller is required")
	}

	for _, def := range reg.List(ability.ListFilter{Visibility: ability.VisibilityPublic}) {
		tool, err := AbilityTool(def)
		if err != nil {
			return err
		}
		s.mcpServer.AddTool(tool, abilityHandler(reg, def.ID, caller))
	}
	return nil
}

// AbilityTool converts an ability definition into an MCP tool. The input
// schema is advertised verbatim; annotations map onto the MCP hints.
func AbilityTool(def *ability.Definition) (mcp.Tool, error) {
	if def == nil {
		return mcp.Tool{}, errors.New("definition is required")
	}
	raw, err := json.Marshal(def.InputSchema)
	if err != nil {
		return mcp.Tool{}, fmt.Errorf("marshal input schema for %s: %w", def.ID, err)
	}

	return mcp.Tool{
		Name:           toolName(def.ID),
		Description:    def.Description,
		RawInputSchema: json.RawMessage(raw),
		Annotations: mcp.ToolAnnotation{
			Title:           def.Label,
			ReadOnlyHint:    boolPtr(def.Annotations.ReadOnly),
			DestructiveHint: boolPtr(def.Annotations.Destructive),
			IdempotentHint:  boolPtr(def.Annotations.Idempotent),
		},
	}, nil
}

// toolName flattens the ability id for MCP clients that reject slashes in
// tool names.
func toolName(id ability.ID) string {
	return id.Category() + "-" + id.Operation()
}

func abilityHandler(reg Invoker, id ability.ID, caller capability.Caller) func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args, _ := request.Params.Arguments.(map[string]interface{})

		output, err := reg.Invoke(ctx, id, args, caller)
		if err != nil {
			return errorResult(err), nil
		}

		payload, merr := json.Marshal(output)
		if merr != nil {
			return errorResult(inkerrors.New(inkerrors.CodeInternal, "encode output", merr)), nil
		}
		return &mcp.CallToolResult{
			Content: []mcp.Content{
				mcp.TextContent{Type: "text", Text: string(payload)},
			},
			StructuredContent: output,
		}, nil
	}
}

// errorResult renders a pipeline error as an MCP tool error. The typed JSON
// form keeps the machine-readable code and drops internals.
func errorResult(err error) *mcp.CallToolResult {
	ie := inkerrors.AsInkwellError(err)
	payload, merr := json.Marshal(ie)
	text := string(payload)
	if merr != nil {
		text = ie.Error()
	}
	return &mcp.CallToolResult{
		IsError: true,
		Content: []mcp.Content{
			mcp.TextContent{Type: "text", Text: text},
		},
	}
}

func boolPtr(b bool) *bool {
	return &b
}
