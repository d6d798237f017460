package user

import "time"

type UserRegisteredEvent struct {
	userID     int64
	name       string
	email      string
	occurredOn time.Time
}

func NewUserRegisteredEvent(userID int64, name, email string) *UserRegisteredEvent {
	return &UserRegisteredEvent{userID: userID, name: name, email: email, occurredOn: time.Now()}
}

func (e *UserRegisteredEvent) EventName() string      { return "user.registered" }
func (e *UserRegisteredEvent) OccurredOn() time.Time  { return e.occurredOn }
func (e *UserRegisteredEvent) GetAggregateID() string { return idString(e.userID) }
func (e *UserRegisteredEvent) Payload() map[string]any {
	return map[string]any{"user_id": e.userID, "name": e.name, "email": e.email}
}

type AdminGrantedEvent struct {
	userID     int64
	email      string
	occurredOn time.Time
}

func NewAdminGrantedEvent(userID int64, email string) *AdminGrantedEvent {
	return &AdminGrantedEvent{userID: userID, email: email, occurredOn: time.Now()}
}

func (e *AdminGrantedEvent) EventName() string      { return "user.admin_granted" }
func (e *AdminGrantedEvent) OccurredOn() time.Time  { return e.occurredOn }
func (e *AdminGrantedEvent) GetAggregateID() string { return idString(e.userID) }
func (e *AdminGrantedEvent) Payload() map[string]any {
	return map[string]any{"user_id": e.userID, "email": e.email}
}
