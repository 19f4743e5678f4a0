package bot

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/robfig/cron/v3"
	log "github.com/sirupsen/logrus"
)

// StartWorkers schedules the pending stake sweep. Prompts past their TTL are
// dropped and the affected users get a DM so they know the window closed.
func (b *Bot) StartWorkers() *cron.Cron {
	c := cron.New()

	_, err := c.AddFunc("@every 1m", func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		expired, err := b.bettingService.ExpirePendingStakes(ctx, time.Now())
		if err != nil {
			log.Errorf("Failed to sweep pending stakes: %v", err)
			return
		}
		if len(expired) == 0 {
			return
		}

		log.Infof("Swept %d expired stake prompts", len(expired))
		for _, stake := range expired {
			b.sendDM(b.session, strconv.FormatInt(stake.DiscordID, 10),
				fmt.Sprintf("Your stake prompt for side %d expired. React on the matchup again to place a bet.", stake.Side))
		}
	})
	if err != nil {
		log.Errorf("Failed to schedule pending stake sweep: %v", err)
	}

	c.Start()
	return c
}
