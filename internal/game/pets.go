package game

import (
	"context"
	"fmt"
	"time"

	"github.com/wuggawugga/adventurebot/pkg/character"
	"github.com/wuggawugga/adventurebot/pkg/gamedata"
)

const catchCooldown = 10 * time.Minute

// CatchPet attempts to catch a companion for a Ranger. Only pets whose
// charisma requirement the character meets can be found; the attempt
// rolls a d20 and succeeds on 10 or better. The catch cooldown starts
// whether the pet is caught or escapes. A nil pet with a nil error means
// the pet got away.
func (s *Service) CatchPet(ctx context.Context, userID string) (*character.Pet, error) {
	var caught *character.Pet
	err := s.withCharacter(ctx, userID, func(c *character.Character) error {
		if c.Class.Kind != character.ClassRanger {
			return fmt.Errorf("only rangers can catch pets")
		}
		if s.now().Unix() < c.Class.CatchCooldownAt {
			return fmt.Errorf("catch attempt on cooldown")
		}

		cha := c.TotalCha()
		var eligible []gamedata.Pet
		for _, p := range s.themes.Theme().Pets {
			if p.RequiredCha <= cha {
				eligible = append(eligible, p)
			}
		}
		if len(eligible) == 0 {
			return fmt.Errorf("every beast shies away from you")
		}

		c.Class.CatchCooldownAt = s.now().Add(catchCooldown).Unix()
		pick := eligible[s.rng.Intn(len(eligible))]
		if s.rng.Intn(20)+1 < 10 {
			return nil
		}
		caught = &character.Pet{Name: pick.Name, Bonus: pick.Bonus}
		c.Class.Pet = caught
		return nil
	})
	return caught, err
}
