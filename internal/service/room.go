package service

import (
	"context"
	"fmt"
	"path"
	"slices"
	"strings"
	"time"

	"hotel-backend/internal/domain"
	"hotel-backend/internal/logger"
	"hotel-backend/internal/repository"
	"hotel-backend/internal/storage"

	"github.com/google/uuid"
)

const uploadURLExpiry = 15 * time.Minute

type roomService struct {
	roomRepo     repository.RoomRepository
	resRepo      repository.ReservationRepository
	store        storage.StorageInterface
	effects      *sideEffects
	allowedTypes []string
	maxFileSize  int64
}

func NewRoomService(
	roomRepo repository.RoomRepository,
	resRepo repository.ReservationRepository,
	activityRepo repository.ActivityLogRepository,
	store storage.StorageInterface,
	allowedTypes []string,
	maxFileSize int64,
) RoomService {
	return &roomService{
		roomRepo:     roomRepo,
		resRepo:      resRepo,
		store:        store,
		effects:      newSideEffects(nil, activityRepo),
		allowedTypes: allowedTypes,
		maxFileSize:  maxFileSize,
	}
}

func (s *roomService) CreateRoom(ctx context.Context, actor domain.Principal, in RoomInput) (*domain.Room, error) {
	logger.EnterMethod("roomService.CreateRoom", "actor", actor.UserID, "roomNumber", in.RoomNumber)

	if err := requireStaff(actor); err != nil {
		return nil, err
	}
	room, err := s.fromInput(ctx, 0, in)
	if err != nil {
		return nil, err
	}
	if err := s.roomRepo.Create(ctx, room); err != nil {
		err = domain.Persistence("create room", err)
		logger.ExitMethodWithError("roomService.CreateRoom", err)
		return nil, err
	}
	s.effects.record(ctx, actorRef(actor), "room.created", "room", room.ID, map[string]string{"room_number": room.RoomNumber})
	logger.ExitMethod("roomService.CreateRoom", "roomID", room.ID)
	return room, nil
}

func (s *roomService) fromInput(ctx context.Context, id int32, in RoomInput) (*domain.Room, error) {
	if err := validateInput(in); err != nil {
		return nil, err
	}
	in.RoomNumber = strings.TrimSpace(in.RoomNumber)
	in.Type = strings.TrimSpace(in.Type)
	exists, err := s.roomRepo.ExistsNumber(ctx, in.Type, in.RoomNumber, id)
	if err != nil {
		return nil, domain.Persistence("check room number", err)
	}
	if exists {
		return nil, domain.NewValidationError("room_number", "room number already exists for this type")
	}
	status := in.Status
	if status == "" {
		status = domain.RoomStatusAvailable
	}
	return &domain.Room{
		ID:          id,
		RoomNumber:  in.RoomNumber,
		Type:        in.Type,
		Name:        strings.TrimSpace(in.Name),
		PriceCents:  in.PriceCents,
		Status:      status,
		Description: in.Description,
		ImageKeys:   []string{},
	}, nil
}

func (s *roomService) GetRoom(ctx context.Context, id int32) (*domain.Room, error) {
	room, err := s.roomRepo.GetByID(ctx, id)
	if err != nil {
		return nil, domain.Persistence("get room", err)
	}
	return room, nil
}

func (s *roomService) ListRooms(ctx context.Context, roomType string) ([]domain.Room, error) {
	rooms, err := s.roomRepo.List(ctx, strings.TrimSpace(roomType))
	if err != nil {
		return nil, domain.Persistence("list rooms", err)
	}
	return rooms, nil
}

func (s *roomService) ListTypes(ctx context.Context) ([]string, error) {
	types, err := s.roomRepo.ListTypes(ctx)
	if err != nil {
		return nil, domain.Persistence("list room types", err)
	}
	return types, nil
}

func (s *roomService) UpdateRoom(ctx context.Context, actor domain.Principal, id int32, in RoomInput) (*domain.Room, error) {
	if err := requireStaff(actor); err != nil {
		return nil, err
	}
	existing, err := s.GetRoom(ctx, id)
	if err != nil {
		return nil, err
	}
	room, err := s.fromInput(ctx, id, in)
	if err != nil {
		return nil, err
	}
	if in.Status == "" {
		room.Status = existing.Status
	}
	room.ImageKeys = existing.ImageKeys
	room.CreatedAt = existing.CreatedAt
	if err := s.roomRepo.Update(ctx, room); err != nil {
		return nil, domain.Persistence("update room", err)
	}
	s.effects.record(ctx, actorRef(actor), "room.updated", "room", room.ID, nil)
	return room, nil
}

func (s *roomService) DeleteRoom(ctx context.Context, actor domain.Principal, id int32) error {
	if err := requireAdmin(actor); err != nil {
		return err
	}
	active, err := s.resRepo.CountActiveForRoom(ctx, id)
	if err != nil {
		return domain.Persistence("count reservations", err)
	}
	if active > 0 {
		return domain.NewValidationError("room", "room has active reservations")
	}
	if err := s.roomRepo.Delete(ctx, id); err != nil {
		return domain.Persistence("delete room", err)
	}
	s.effects.record(ctx, actorRef(actor), "room.deleted", "room", id, nil)
	return nil
}

// SetStatus persists a staff-set status. "booked" is derived from reservations
// and cannot be set directly.
func (s *roomService) SetStatus(ctx context.Context, actor domain.Principal, id int32, status domain.RoomStatus) (*domain.Room, error) {
	if err := requireStaff(actor); err != nil {
		return nil, err
	}
	if !status.Valid() || status == domain.RoomStatusBooked {
		return nil, domain.NewValidationError("status", "status must be one of available, needs_cleaning, out_of_order")
	}
	if err := s.roomRepo.UpdateStatus(ctx, id, status); err != nil {
		return nil, domain.Persistence("update room status", err)
	}
	s.effects.record(ctx, actorRef(actor), "room.status_changed", "room", id, map[string]string{"status": string(status)})
	return s.GetRoom(ctx, id)
}

func (s *roomService) GetImageUploadURL(ctx context.Context, actor domain.Principal, roomID int32, filename, contentType string) (*ImageUpload, error) {
	if err := requireStaff(actor); err != nil {
		return nil, err
	}
	if len(s.allowedTypes) > 0 && !slices.Contains(s.allowedTypes, contentType) {
		return nil, domain.NewValidationError("content_type", fmt.Sprintf("must be one of: %s", strings.Join(s.allowedTypes, ", ")))
	}
	if _, err := s.GetRoom(ctx, roomID); err != nil {
		return nil, err
	}

	key := fmt.Sprintf("rooms/%d/%s%s", roomID, uuid.NewString(), strings.ToLower(path.Ext(filename)))
	url, err := s.store.GeneratePresignedUploadURL(ctx, key, contentType, uploadURLExpiry)
	if err != nil {
		return nil, fmt.Errorf("failed to generate upload url: %w", err)
	}
	return &ImageUpload{Key: key, UploadURL: url, ExpiresAt: time.Now().Add(uploadURLExpiry)}, nil
}

func (s *roomService) ConfirmImage(ctx context.Context, actor domain.Principal, roomID int32, key string) (*domain.Room, error) {
	if err := requireStaff(actor); err != nil {
		return nil, err
	}
	if !strings.HasPrefix(key, fmt.Sprintf("rooms/%d/", roomID)) {
		return nil, domain.NewValidationError("key", "key does not belong to this room")
	}
	exists, size, err := s.store.FileExists(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("failed to check uploaded file: %w", err)
	}
	if !exists {
		return nil, domain.NewValidationError("key", "file has not been uploaded")
	}
	if s.maxFileSize > 0 && size > s.maxFileSize {
		_ = s.store.DeleteFile(ctx, key)
		return nil, domain.NewValidationError("key", "file exceeds the maximum allowed size")
	}
	if err := s.roomRepo.AddImage(ctx, roomID, key); err != nil {
		return nil, domain.Persistence("add room image", err)
	}
	return s.GetRoom(ctx, roomID)
}

func (s *roomService) ListImages(ctx context.Context, roomID int32) ([]RoomImage, error) {
	room, err := s.GetRoom(ctx, roomID)
	if err != nil {
		return nil, err
	}
	images := make([]RoomImage, 0, len(room.ImageKeys))
	for _, key := range room.ImageKeys {
		url, err := s.store.GeneratePresignedDownloadURL(ctx, key, time.Hour)
		if err != nil {
			return nil, fmt.Errorf("failed to generate download url: %w", err)
		}
		images = append(images, RoomImage{Key: key, URL: url})
	}
	return images, nil
}
