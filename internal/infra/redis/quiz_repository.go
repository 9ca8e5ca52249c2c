package redis

import (
	"context"
	"errors"
	"math/rand"
	"strconv"
	"sync"
	"time"

	"classroom-service/internal/app"
	"classroom-service/internal/domain"
	"classroom-service/internal/logging"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"
)

// QuizRepository caches quiz answer keys in Redis and falls back to a loader on cache miss.
// Answers are stored as: HSET quiz:{quizID}:answers {questionID} {correctAnswer}
// Metadata is stored as: HSET quiz:{quizID}:meta teacher {teacherID} title {title}
// The meta hash marks presence, so quizzes without questions are cached too.
// quiz:{quizID}:gen is bumped by Invalidate; a fill WATCHes it so a load that
// started before an invalidation never lands in the cache.
type QuizRepository struct {
	client *redis.Client
	loader app.QuizLoader
	ttl    time.Duration
	sf     singleflight.Group

	rndMu sync.Mutex
	rnd   *rand.Rand
}

func NewQuizRepository(client *redis.Client, loader app.QuizLoader, ttl time.Duration) *QuizRepository {
	return &QuizRepository{
		client: client,
		loader: loader,
		ttl:    ttl,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (r *QuizRepository) GetQuiz(ctx context.Context, quizID string) (domain.Quiz, error) {
	if quiz, ok := r.cached(ctx, quizID); ok {
		return quiz, nil
	}

	result, err, _ := r.sf.Do(quizID, func() (interface{}, error) {
		// Re-check cache in case another goroutine filled it.
		if quiz, ok := r.cached(ctx, quizID); ok {
			return quiz, nil
		}

		gen, genErr := r.generation(ctx, quizID)
		if genErr != nil {
			logging.FromContext(ctx).WithError(genErr).WithField("quiz_id", quizID).Warn("quiz cache generation read failed")
		}

		quiz, err := r.loader.LoadQuiz(ctx, quizID)
		if err != nil {
			return domain.Quiz{}, err
		}
		if genErr == nil {
			r.store(ctx, quiz, gen)
		}
		return quiz, nil
	})
	if err != nil {
		return domain.Quiz{}, err
	}
	return result.(domain.Quiz), nil
}

// Invalidate removes the cached answer key for quizID.
func (r *QuizRepository) Invalidate(ctx context.Context, quizID string) error {
	r.sf.Forget(quizID)
	_, err := r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Incr(ctx, r.genKey(quizID))
		pipe.Del(ctx, r.answersKey(quizID), r.metaKey(quizID))
		return nil
	})
	return err
}

// generation returns the current invalidation counter, "" when never bumped.
func (r *QuizRepository) generation(ctx context.Context, quizID string) (string, error) {
	gen, err := r.client.Get(ctx, r.genKey(quizID)).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	return gen, err
}

func (r *QuizRepository) cached(ctx context.Context, quizID string) (domain.Quiz, bool) {
	meta, err := r.client.HGetAll(ctx, r.metaKey(quizID)).Result()
	if err != nil || len(meta) == 0 {
		return domain.Quiz{}, false
	}
	answers, err := r.client.HGetAll(ctx, r.answersKey(quizID)).Result()
	if err != nil {
		return domain.Quiz{}, false
	}
	return buildQuizFromCache(quizID, meta, answers), true
}

// store caches quiz unless its generation moved away from gen.
func (r *QuizRepository) store(ctx context.Context, quiz domain.Quiz, gen string) {
	ttl := r.ttlWithJitter()
	if ttl <= 0 {
		return
	}
	answerKey, metaKey, genKey := r.answersKey(quiz.ID), r.metaKey(quiz.ID), r.genKey(quiz.ID)
	log := logging.FromContext(ctx).WithField("quiz_id", quiz.ID)

	err := r.client.Watch(ctx, func(tx *redis.Tx) error {
		current, err := tx.Get(ctx, genKey).Result()
		if err != nil && !errors.Is(err, redis.Nil) {
			return err
		}
		if current != gen {
			return errStaleLoad
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Del(ctx, answerKey, metaKey)
			for _, q := range quiz.Questions {
				pipe.HSet(ctx, answerKey, q.ID, q.CorrectAnswer)
			}
			pipe.HSet(ctx, metaKey, "teacher", quiz.TeacherID, "title", quiz.Title)
			pipe.Expire(ctx, answerKey, ttl)
			pipe.Expire(ctx, metaKey, ttl)
			return nil
		})
		return err
	}, genKey)

	switch {
	case err == nil:
	case errors.Is(err, errStaleLoad), errors.Is(err, redis.TxFailedErr):
		log.Debug("quiz invalidated during load, not caching")
	default:
		log.WithError(err).Warn("quiz cache write failed")
	}
}

var errStaleLoad = errors.New("quiz invalidated during load")

func (r *QuizRepository) answersKey(quizID string) string {
	return "quiz:" + quizID + ":answers"
}

func (r *QuizRepository) metaKey(quizID string) string {
	return "quiz:" + quizID + ":meta"
}

func (r *QuizRepository) genKey(quizID string) string {
	return "quiz:" + quizID + ":gen"
}

// buildQuizFromCache rebuilds the scoring view of a quiz. Question text and
// options are not cached.
func buildQuizFromCache(quizID string, meta, answers map[string]string) domain.Quiz {
	questions := make([]domain.Question, 0, len(answers))
	for questionID, raw := range answers {
		correct, err := strconv.Atoi(raw)
		if err != nil {
			continue
		}
		questions = append(questions, domain.Question{ID: questionID, CorrectAnswer: correct})
	}
	return domain.Quiz{
		ID:        quizID,
		Title:     meta["title"],
		TeacherID: meta["teacher"],
		Questions: questions,
	}
}

func (r *QuizRepository) ttlWithJitter() time.Duration {
	if r.ttl <= 0 {
		return 0
	}
	jitterMax := int64(r.ttl) / 10
	r.rndMu.Lock()
	defer r.rndMu.Unlock()
	return r.ttl + time.Duration(r.rnd.Int63n(jitterMax+1))
}
