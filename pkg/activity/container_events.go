package activity

import (
	"strings"
	"time"
)

// LayerContext names the registry layer an event relates to ("instances",
// "classes") together with its search priority.
type LayerContext struct {
	Name     string
	Priority int
	Metadata map[string]any
}

// ContainerEventInput describes the common fields for container lifecycle
// events.
type ContainerEventInput struct {
	ActorID        string
	UserID         string
	TenantID       string
	ObjectID       string
	Channel        string
	DefinitionCode string
	Recipients     []string
	Metadata       map[string]any
	Key            string
	OldValue       any
	NewValue       any
	Layer          LayerContext
	OccurredAt     time.Time
}

// BuildEntrySetEvent constructs a normalized activity event for a catalog
// entry write.
func BuildEntrySetEvent(input ContainerEventInput) Event {
	return buildContainerEvent("catalog.set", "catalog_entry", input)
}

// BuildEntryDeletedEvent constructs a normalized activity event for a catalog
// entry removal.
func BuildEntryDeletedEvent(input ContainerEventInput) Event {
	return buildContainerEvent("catalog.deleted", "catalog_entry", input)
}

// BuildDepositedEvent constructs a normalized activity event for a library
// deposit.
func BuildDepositedEvent(input ContainerEventInput) Event {
	return buildContainerEvent("library.deposited", "library_item", input)
}

// BuildWithdrawnEvent constructs a normalized activity event for a library
// withdrawal.
func BuildWithdrawnEvent(input ContainerEventInput) Event {
	return buildContainerEvent("library.withdrawn", "library_item", input)
}

func buildContainerEvent(verb, objectType string, input ContainerEventInput) Event {
	metadata := cloneMap(input.Metadata)
	if input.Key != "" {
		metadata = ensureMetadata(metadata)
		metadata["key"] = input.Key
	}
	if input.Layer.Name != "" {
		metadata = ensureMetadata(metadata)
		metadata["layer_name"] = input.Layer.Name
		metadata["layer_priority"] = input.Layer.Priority
		if len(input.Layer.Metadata) > 0 {
			metadata["layer_metadata"] = cloneMap(input.Layer.Metadata)
		}
	}
	if input.OldValue != nil {
		metadata = ensureMetadata(metadata)
		metadata["old_value"] = input.OldValue
	}
	if input.NewValue != nil {
		metadata = ensureMetadata(metadata)
		metadata["new_value"] = input.NewValue
	}

	recipients := input.Recipients
	if len(recipients) > 0 {
		recipients = append([]string{}, input.Recipients...)
	}

	objectID := strings.TrimSpace(input.ObjectID)
	if objectID == "" {
		objectID = strings.TrimSpace(input.Key)
	}
	if objectID == "" {
		objectID = objectType
	}

	return Event{
		Verb:           verb,
		ActorID:        strings.TrimSpace(input.ActorID),
		UserID:         strings.TrimSpace(input.UserID),
		TenantID:       strings.TrimSpace(input.TenantID),
		ObjectType:     objectType,
		ObjectID:       objectID,
		Channel:        strings.TrimSpace(input.Channel),
		DefinitionCode: strings.TrimSpace(input.DefinitionCode),
		Recipients:     recipients,
		Metadata:       metadata,
		OccurredAt:     input.OccurredAt,
	}
}

func ensureMetadata(meta map[string]any) map[string]any {
	if meta == nil {
		return map[string]any{}
	}
	return meta
}
