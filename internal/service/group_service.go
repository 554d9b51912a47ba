package service

import (
	"context"
	"log/slog"

	"connectrpc.com/connect"

	"github.com/PixelCode01/SHG-Mangement-sub000/internal/ledger"
	"github.com/PixelCode01/SHG-Mangement-sub000/internal/models"
	"github.com/PixelCode01/SHG-Mangement-sub000/pkg/api"
)

// GroupService implements api.GroupServiceHandler.
type GroupService struct {
	ledger *ledger.Ledger
}

var _ api.GroupServiceHandler = (*GroupService)(nil)

// NewGroupService creates a new GroupService backed by l.
func NewGroupService(l *ledger.Ledger) *GroupService {
	return &GroupService{ledger: l}
}

// CreateGroup creates a new group.
func (s *GroupService) CreateGroup(ctx context.Context, req *connect.Request[api.CreateGroupRequest]) (*connect.Response[api.CreateGroupResponse], error) {
	slog.Info("CreateGroup request received",
		"name", req.Msg.Name,
		"frequency", req.Msg.Schedule.Frequency,
	)
	if err := validateRequest(req.Msg); err != nil {
		return nil, err
	}

	group, err := groupFromSettings(req.Msg.GroupSettings)
	if err != nil {
		return nil, connectError(err)
	}
	if err := s.ledger.CreateGroup(ctx, group); err != nil {
		slog.Error("CreateGroup failed", "error", err)
		return nil, connectError(err)
	}

	slog.Info("Group created", "group_id", group.ID)
	return connect.NewResponse(&api.CreateGroupResponse{Group: toAPIGroup(group)}), nil
}

// GetGroup retrieves a group by ID.
func (s *GroupService) GetGroup(ctx context.Context, req *connect.Request[api.GetGroupRequest]) (*connect.Response[api.GetGroupResponse], error) {
	if err := validateRequest(req.Msg); err != nil {
		return nil, err
	}
	group, err := s.ledger.GetGroup(ctx, req.Msg.GroupID)
	if err != nil {
		slog.Error("GetGroup failed", "group_id", req.Msg.GroupID, "error", err)
		return nil, connectError(err)
	}
	return connect.NewResponse(&api.GetGroupResponse{Group: toAPIGroup(group)}), nil
}

// ListGroups retrieves all groups.
func (s *GroupService) ListGroups(ctx context.Context, req *connect.Request[api.ListGroupsRequest]) (*connect.Response[api.ListGroupsResponse], error) {
	groups, err := s.ledger.ListGroups(ctx)
	if err != nil {
		slog.Error("ListGroups failed", "error", err)
		return nil, connectError(err)
	}

	out := make([]*api.Group, len(groups))
	for i, g := range groups {
		out[i] = toAPIGroup(g)
	}
	slog.Info("ListGroups successful", "count", len(groups))
	return connect.NewResponse(&api.ListGroupsResponse{Groups: out}), nil
}

// UpdateGroupSettings replaces a group's settings. Dues already fixed for the
// open period keep their values.
func (s *GroupService) UpdateGroupSettings(ctx context.Context, req *connect.Request[api.UpdateGroupSettingsRequest]) (*connect.Response[api.UpdateGroupSettingsResponse], error) {
	slog.Info("UpdateGroupSettings request received", "group_id", req.Msg.GroupID)
	if err := validateRequest(req.Msg); err != nil {
		return nil, err
	}

	group, err := groupFromSettings(req.Msg.GroupSettings)
	if err != nil {
		return nil, connectError(err)
	}
	group.ID = req.Msg.GroupID
	if err := s.ledger.UpdateGroupSettings(ctx, group); err != nil {
		slog.Error("UpdateGroupSettings failed", "group_id", req.Msg.GroupID, "error", err)
		return nil, connectError(err)
	}

	updated, err := s.ledger.GetGroup(ctx, group.ID)
	if err != nil {
		return nil, connectError(err)
	}
	return connect.NewResponse(&api.UpdateGroupSettingsResponse{Group: toAPIGroup(updated)}), nil
}

// AddMember adds a member to a group.
func (s *GroupService) AddMember(ctx context.Context, req *connect.Request[api.AddMemberRequest]) (*connect.Response[api.AddMemberResponse], error) {
	slog.Info("AddMember request received", "group_id", req.Msg.GroupID, "name", req.Msg.Name)
	if err := validateRequest(req.Msg); err != nil {
		return nil, err
	}

	member := &models.Member{
		GroupID:     req.Msg.GroupID,
		Name:        req.Msg.Name,
		FamilySize:  req.Msg.FamilySize,
		LoanBalance: req.Msg.LoanBalance,
	}
	if err := s.ledger.AddMember(ctx, member); err != nil {
		slog.Error("AddMember failed", "group_id", req.Msg.GroupID, "error", err)
		return nil, connectError(err)
	}

	slog.Info("Member added", "group_id", member.GroupID, "member_id", member.ID)
	return connect.NewResponse(&api.AddMemberResponse{Member: toAPIMember(member)}), nil
}

// ListMembers lists the members of a group.
func (s *GroupService) ListMembers(ctx context.Context, req *connect.Request[api.ListMembersRequest]) (*connect.Response[api.ListMembersResponse], error) {
	if err := validateRequest(req.Msg); err != nil {
		return nil, err
	}
	members, err := s.ledger.ListMembers(ctx, req.Msg.GroupID)
	if err != nil {
		slog.Error("ListMembers failed", "group_id", req.Msg.GroupID, "error", err)
		return nil, connectError(err)
	}

	out := make([]*api.Member, len(members))
	for i, m := range members {
		out[i] = toAPIMember(m)
	}
	return connect.NewResponse(&api.ListMembersResponse{Members: out}), nil
}
