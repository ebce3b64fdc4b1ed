package persistent

import (
	"estate-market/pkg/models"
	"estate-market/services/marketplace/internal/entity"
	"estate-market/services/marketplace/internal/model"
)

func ToUserEntity(m *model.UserModel) *entity.User {
	if m == nil {
		return nil
	}

	favorites := m.Favorites
	if favorites == nil {
		favorites = []string{}
	}
	return &entity.User{
		ID:        m.ID,
		Name:      m.Name,
		Phone:     m.Phone,
		Password:  m.Password,
		Role:      models.UserRole(m.Role),
		Favorites: favorites,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

func ToUserModel(e *entity.User) *model.UserModel {
	if e == nil {
		return nil
	}

	favorites := e.Favorites
	if favorites == nil {
		favorites = []string{}
	}
	return &model.UserModel{
		ID:        e.ID,
		Name:      e.Name,
		Phone:     e.Phone,
		Password:  e.Password,
		Role:      string(e.Role),
		Favorites: favorites,
		CreatedAt: e.CreatedAt,
		UpdatedAt: e.UpdatedAt,
	}
}

func ToPosterEntity(m *model.PosterModel) *entity.Poster {
	if m == nil {
		return nil
	}

	images := m.Images
	if images == nil {
		images = []string{}
	}
	return &entity.Poster{
		ID:           m.ID,
		Title:        m.Title,
		Description:  m.Description,
		Images:       images,
		Area:         m.Area,
		Rooms:        m.Rooms,
		BuildingDate: m.BuildingDate,
		TotalPrice:   m.TotalPrice,
		PricePerM2:   m.PricePerM2,
		Deposit:      m.Deposit,
		Rent:         m.Rent,
		ParentType:   entity.ParentType(m.ParentType),
		TradeType:    entity.TradeType(m.TradeType),
		Status:       entity.PosterStatus(m.Status),
		CategoryID:   m.CategoryID,
		Address:      m.Address,
		Location: entity.Location{
			Longitude: m.Location.Coordinates[0],
			Latitude:  m.Location.Coordinates[1],
		},
		UserID:    m.UserID,
		Views:     m.Views,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

func ToPosterModel(e *entity.Poster) *model.PosterModel {
	if e == nil {
		return nil
	}

	images := e.Images
	if images == nil {
		images = []string{}
	}
	return &model.PosterModel{
		ID:           e.ID,
		Title:        e.Title,
		Description:  e.Description,
		Images:       images,
		Area:         e.Area,
		Rooms:        e.Rooms,
		BuildingDate: e.BuildingDate,
		TotalPrice:   e.TotalPrice,
		PricePerM2:   e.PricePerM2,
		Deposit:      e.Deposit,
		Rent:         e.Rent,
		ParentType:   string(e.ParentType),
		TradeType:    string(e.TradeType),
		Status:       string(e.Status),
		CategoryID:   e.CategoryID,
		Address:      e.Address,
		Location: model.GeoPoint{
			Type:        "Point",
			Coordinates: [2]float64{e.Location.Longitude, e.Location.Latitude},
		},
		UserID:    e.UserID,
		Views:     e.Views,
		CreatedAt: e.CreatedAt,
		UpdatedAt: e.UpdatedAt,
	}
}

func ToCategoryEntity(m *model.CategoryModel) *entity.Category {
	if m == nil {
		return nil
	}

	return &entity.Category{
		ID:        m.ID,
		Name:      m.Name,
		ParentID:  m.ParentID,
		Order:     m.Order,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

func ToCategoryModel(e *entity.Category) *model.CategoryModel {
	if e == nil {
		return nil
	}

	return &model.CategoryModel{
		ID:        e.ID,
		Name:      e.Name,
		ParentID:  e.ParentID,
		Order:     e.Order,
		CreatedAt: e.CreatedAt,
		UpdatedAt: e.UpdatedAt,
	}
}

func ToConsultantEntity(m *model.ConsultantModel) *entity.Consultant {
	if m == nil {
		return nil
	}

	return &entity.Consultant{
		ID:         m.ID,
		Name:       m.Name,
		Phone:      m.Phone,
		Avatar:     m.Avatar,
		Bio:        m.Bio,
		Experience: m.Experience,
		IsActive:   m.IsActive,
		CreatedAt:  m.CreatedAt,
		UpdatedAt:  m.UpdatedAt,
	}
}

func ToConsultantModel(e *entity.Consultant) *model.ConsultantModel {
	if e == nil {
		return nil
	}

	return &model.ConsultantModel{
		ID:         e.ID,
		Name:       e.Name,
		Phone:      e.Phone,
		Avatar:     e.Avatar,
		Bio:        e.Bio,
		Experience: e.Experience,
		IsActive:   e.IsActive,
		CreatedAt:  e.CreatedAt,
		UpdatedAt:  e.UpdatedAt,
	}
}

func ToTopConsultantEntity(m *model.TopConsultantModel) *entity.TopConsultant {
	if m == nil {
		return nil
	}

	return &entity.TopConsultant{
		Rank:         m.Rank,
		ConsultantID: m.ConsultantID,
		IsActive:     m.IsActive,
		UpdatedAt:    m.UpdatedAt,
	}
}

func ToChatRoomEntity(m *model.ChatRoomModel) *entity.ChatRoom {
	if m == nil {
		return nil
	}

	messages := make([]entity.Message, len(m.Messages))
	for i, msg := range m.Messages {
		messages[i] = entity.Message{
			ID:         msg.ID,
			SenderID:   msg.SenderID,
			ReceiverID: msg.ReceiverID,
			Text:       msg.Text,
			CreatedAt:  msg.CreatedAt,
		}
	}
	return &entity.ChatRoom{
		ID:           m.ID,
		Participants: m.Participants,
		Messages:     messages,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
}

func ToMessageModel(e *entity.Message) model.MessageModel {
	return model.MessageModel{
		ID:         e.ID,
		SenderID:   e.SenderID,
		ReceiverID: e.ReceiverID,
		Text:       e.Text,
		CreatedAt:  e.CreatedAt,
	}
}
