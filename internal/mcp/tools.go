package mcp

import (
	"context"
	"fmt"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/1broseidon/deskwm/internal/wm"
)

func (s *Server) handleOpenWindow(_ context.Context, _ *mcpsdk.CallToolRequest, args OpenWindowInput) (*mcpsdk.CallToolResult, ActionOutput, error) {
	if args.ID == "" {
		return nil, ActionOutput{}, fmt.Errorf("id is required")
	}
	title := args.Title
	if title == "" {
		title = args.ID
	}
	events, err := s.client.Execute(wm.Command{Kind: wm.CmdOpen, WindowID: args.ID, Title: title, Icon: args.Icon})
	if err != nil {
		return nil, ActionOutput{}, fmt.Errorf("open %s: %w", args.ID, err)
	}
	s.logger.Info("window opened", "window_id", args.ID)
	return nil, ActionOutput{WindowID: args.ID, Events: eventNames(events)}, nil
}

func (s *Server) handleClose(_ context.Context, _ *mcpsdk.CallToolRequest, args WindowTargetInput) (*mcpsdk.CallToolResult, ActionOutput, error) {
	out, err := s.act(wm.CmdClose, args.ID)
	return nil, out, err
}

func (s *Server) handleMinimize(_ context.Context, _ *mcpsdk.CallToolRequest, args WindowTargetInput) (*mcpsdk.CallToolResult, ActionOutput, error) {
	out, err := s.act(wm.CmdMinimize, args.ID)
	return nil, out, err
}

func (s *Server) handleMaximize(_ context.Context, _ *mcpsdk.CallToolRequest, args WindowTargetInput) (*mcpsdk.CallToolResult, ActionOutput, error) {
	out, err := s.act(wm.CmdToggleMaximize, args.ID)
	return nil, out, err
}

func (s *Server) handleRestore(_ context.Context, _ *mcpsdk.CallToolRequest, args RequiredWindowInput) (*mcpsdk.CallToolResult, ActionOutput, error) {
	if args.ID == "" {
		return nil, ActionOutput{}, fmt.Errorf("id is required")
	}
	out, err := s.act(wm.CmdRestore, args.ID)
	return nil, out, err
}

func (s *Server) handleActivate(_ context.Context, _ *mcpsdk.CallToolRequest, args RequiredWindowInput) (*mcpsdk.CallToolResult, ActionOutput, error) {
	if args.ID == "" {
		return nil, ActionOutput{}, fmt.Errorf("id is required")
	}
	out, err := s.act(wm.CmdActivate, args.ID)
	return nil, out, err
}

func (s *Server) handleToggle(_ context.Context, _ *mcpsdk.CallToolRequest, args RequiredWindowInput) (*mcpsdk.CallToolResult, ActionOutput, error) {
	if args.ID == "" {
		return nil, ActionOutput{}, fmt.Errorf("id is required")
	}
	out, err := s.act(wm.CmdToggle, args.ID)
	return nil, out, err
}

func (s *Server) handleCloseAll(_ context.Context, _ *mcpsdk.CallToolRequest, _ CloseAllInput) (*mcpsdk.CallToolResult, ActionOutput, error) {
	events, err := s.client.Execute(wm.Command{Kind: wm.CmdCloseAll})
	if err != nil {
		return nil, ActionOutput{}, fmt.Errorf("close all: %w", err)
	}
	return nil, ActionOutput{Events: eventNames(events)}, nil
}

func (s *Server) handleListWindows(_ context.Context, _ *mcpsdk.CallToolRequest, args ListWindowsInput) (*mcpsdk.CallToolResult, ListWindowsOutput, error) {
	data, err := s.client.ListWindows()
	if err != nil {
		return nil, ListWindowsOutput{}, fmt.Errorf("list windows: %w", err)
	}

	recs := append([]wm.Record(nil), data.Windows...)
	wm.SortByZ(recs)
	windows := make([]WindowInfo, 0, len(recs))
	for _, r := range recs {
		if !args.IncludeClosing && r.State == wm.StateClosed {
			continue
		}
		windows = append(windows, windowInfo(r))
	}
	return nil, ListWindowsOutput{Windows: windows, ActiveID: data.ActiveID}, nil
}

func (s *Server) handleStatus(_ context.Context, _ *mcpsdk.CallToolRequest, _ StatusInput) (*mcpsdk.CallToolResult, StatusOutput, error) {
	st, err := s.client.GetStatus()
	if err != nil {
		return nil, StatusOutput{}, fmt.Errorf("status: %w", err)
	}
	return nil, StatusOutput{
		WindowCount:    st.WindowCount,
		ActiveID:       st.ActiveID,
		Interaction:    st.Interaction,
		Animations:     st.Animations,
		ViewportWidth:  st.Container.Width,
		ViewportHeight: st.Container.Height,
		TaskbarHeight:  st.Container.ReservedBottom,
		UptimeSeconds:  st.UptimeSeconds,
	}, nil
}
