package goquery_test

import (
	"testing"

	"github.com/fwojciec/quizdoc"
	"github.com/fwojciec/quizdoc/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateConfig(t *testing.T) {
	t.Parallel()

	t.Run("accepts defaults", func(t *testing.T) {
		t.Parallel()

		assert.NoError(t, goquery.ValidateConfig(quizdoc.DefaultSelectorConfig()))
	})

	t.Run("accepts empty config", func(t *testing.T) {
		t.Parallel()

		assert.NoError(t, goquery.ValidateConfig(quizdoc.SelectorConfig{}))
	})

	t.Run("names the invalid field", func(t *testing.T) {
		t.Parallel()

		cfg := quizdoc.DefaultSelectorConfig()
		cfg.Answers.Incorrect = ".answer:not("

		err := goquery.ValidateConfig(cfg)

		require.Error(t, err)
		assert.Equal(t, quizdoc.EINVALID, quizdoc.ErrorCode(err))
		assert.Contains(t, quizdoc.ErrorMessage(err), "answers.incorrect")
	})
}
