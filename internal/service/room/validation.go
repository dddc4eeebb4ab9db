package room

import (
	"context"
	"fmt"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

var RoomIdRule = []validation.Rule{
	validation.Required,
	validation.RuneLength(1, 64),
}

var ConnectionIdRule = []validation.Rule{
	validation.Required,
}

var UsernameRule = []validation.Rule{
	validation.Required,
	validation.RuneLength(1, 32),
}

var AvatarRule = []validation.Rule{
	validation.RuneLength(0, 16),
}

var VideoIdRule = []validation.Rule{
	validation.Required,
	validation.RuneLength(1, 64),
}

var TitleRule = []validation.Rule{
	validation.RuneLength(0, 256),
}

var ThumbnailRule = []validation.Rule{
	validation.RuneLength(0, 2048),
}

var TimeRule = []validation.Rule{
	validation.Min(0.0),
}

var TextRule = []validation.Rule{
	validation.Required,
	validation.RuneLength(1, 500),
}

var PinTextRule = []validation.Rule{
	validation.RuneLength(0, 500),
}

var SymbolRule = []validation.Rule{
	validation.Required,
	validation.RuneLength(1, 16),
}

func validate(ctx context.Context, structPtr any, fields ...*validation.FieldRules) error {
	if err := validation.ValidateStructWithContext(ctx, structPtr, fields...); err != nil {
		return fmt.Errorf("%w: %w", ErrValidation, err)
	}

	return nil
}
