package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/harentsoaR/healthcare-api/internal/models"
)

func (m *Mongo) CreateAppointment(ctx context.Context, a *models.Appointment) error {
	if a.ID.IsZero() {
		a.ID = primitive.NewObjectID()
	}
	if _, err := m.db.Collection(appointmentsCollection).InsertOne(ctx, a); err != nil {
		return fmt.Errorf("insert appointment: %w", err)
	}
	return nil
}

func (m *Mongo) FindAppointmentByID(ctx context.Context, id primitive.ObjectID) (*models.Appointment, error) {
	var apt models.Appointment
	err := m.db.Collection(appointmentsCollection).FindOne(ctx, bson.M{"_id": id}).Decode(&apt)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("find appointment: %w", err)
	}
	return &apt, nil
}

func (m *Mongo) ListAppointments(ctx context.Context, f OwnerFilter) ([]models.Appointment, error) {
	cursor, err := m.db.Collection(appointmentsCollection).Find(ctx, ownerFilter(f), newestFirst("date"))
	if err != nil {
		return nil, fmt.Errorf("list appointments: %w", err)
	}
	defer cursor.Close(ctx)

	appointments := make([]models.Appointment, 0)
	if err := cursor.All(ctx, &appointments); err != nil {
		return nil, fmt.Errorf("decode appointments: %w", err)
	}
	return appointments, nil
}

func (m *Mongo) TransitionAppointment(ctx context.Context, id primitive.ObjectID, from, to models.AppointmentStatus) (*models.Appointment, error) {
	filter := bson.M{"_id": id, "status": from}
	update := bson.M{"$set": bson.M{"status": to, "updatedAt": time.Now().UTC()}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var apt models.Appointment
	err := m.db.Collection(appointmentsCollection).FindOneAndUpdate(ctx, filter, update, opts).Decode(&apt)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("update appointment status: %w", err)
	}
	return &apt, nil
}

func (m *Mongo) CreatePrescription(ctx context.Context, p *models.Prescription) error {
	if p.ID.IsZero() {
		p.ID = primitive.NewObjectID()
	}
	if _, err := m.db.Collection(prescriptionsCollection).InsertOne(ctx, p); err != nil {
		return fmt.Errorf("insert prescription: %w", err)
	}
	return nil
}

func (m *Mongo) ListPrescriptions(ctx context.Context, f OwnerFilter) ([]models.Prescription, error) {
	cursor, err := m.db.Collection(prescriptionsCollection).Find(ctx, ownerFilter(f), newestFirst("createdAt"))
	if err != nil {
		return nil, fmt.Errorf("list prescriptions: %w", err)
	}
	defer cursor.Close(ctx)

	prescriptions := make([]models.Prescription, 0)
	if err := cursor.All(ctx, &prescriptions); err != nil {
		return nil, fmt.Errorf("decode prescriptions: %w", err)
	}
	return prescriptions, nil
}

func (m *Mongo) CreateReport(ctx context.Context, r *models.Report) error {
	if r.ID.IsZero() {
		r.ID = primitive.NewObjectID()
	}
	if _, err := m.db.Collection(reportsCollection).InsertOne(ctx, r); err != nil {
		return fmt.Errorf("insert report: %w", err)
	}
	return nil
}

func (m *Mongo) ListReports(ctx context.Context, f OwnerFilter) ([]models.Report, error) {
	cursor, err := m.db.Collection(reportsCollection).Find(ctx, ownerFilter(f), newestFirst("createdAt"))
	if err != nil {
		return nil, fmt.Errorf("list reports: %w", err)
	}
	defer cursor.Close(ctx)

	reports := make([]models.Report, 0)
	if err := cursor.All(ctx, &reports); err != nil {
		return nil, fmt.Errorf("decode reports: %w", err)
	}
	return reports, nil
}

func (m *Mongo) CreateContact(ctx context.Context, c *models.EmergencyContact) error {
	if c.ID.IsZero() {
		c.ID = primitive.NewObjectID()
	}
	if _, err := m.db.Collection(contactsCollection).InsertOne(ctx, c); err != nil {
		return fmt.Errorf("insert emergency contact: %w", err)
	}
	return nil
}

func (m *Mongo) ListContacts(ctx context.Context, patientID primitive.ObjectID) ([]models.EmergencyContact, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}, {Key: "_id", Value: 1}})
	cursor, err := m.db.Collection(contactsCollection).Find(ctx, bson.M{"patientId": patientID}, opts)
	if err != nil {
		return nil, fmt.Errorf("list emergency contacts: %w", err)
	}
	defer cursor.Close(ctx)

	contacts := make([]models.EmergencyContact, 0)
	if err := cursor.All(ctx, &contacts); err != nil {
		return nil, fmt.Errorf("decode emergency contacts: %w", err)
	}
	return contacts, nil
}

func (m *Mongo) DeleteContact(ctx context.Context, patientID, id primitive.ObjectID) error {
	res, err := m.db.Collection(contactsCollection).DeleteOne(ctx, bson.M{"_id": id, "patientId": patientID})
	if err != nil {
		return fmt.Errorf("delete emergency contact: %w", err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}
