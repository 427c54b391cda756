package repository

const (
	CreateWalletQuery = `
        INSERT INTO wallets (id, user_id, balance, created_at, updated_at)
        VALUES ($1, $2, 0, NOW(), NOW())
        RETURNING id, user_id, balance, created_at, updated_at
    `

	GetWalletByIDQuery = `
        SELECT id, user_id, balance, created_at, updated_at
        FROM wallets
        WHERE id = $1
    `

	GetWalletByUserIDQuery = `
        SELECT id, user_id, balance, created_at, updated_at
        FROM wallets
        WHERE user_id = $1
    `

	LockWalletStateQuery = `
    SELECT balance, user_id
    FROM wallets
    WHERE id = $1
    FOR UPDATE
	`

	CreateTransactionQuery = `
		INSERT INTO transactions (id, wallet_id, user_id, amount, type, description)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	UpdateWalletBalanceQuery = `
    UPDATE wallets
    SET
        balance = balance + $1,
        updated_at = NOW()
    WHERE id = $2
    RETURNING id, user_id, balance, created_at, updated_at
	`

	GetTransactionsQuery = `
        SELECT id, wallet_id, user_id, amount, type, description, created_at
        FROM transactions
        WHERE wallet_id = $1
        ORDER BY created_at
    `

	CreatePredictionQuery = `
		INSERT INTO predictions (id, user_id, input_text, embedding, cost)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at
	`

	LinkPredictionMovieQuery = `
		INSERT INTO prediction_movies (prediction_id, movie_id, position)
		VALUES ($1, $2, $3)
	`

	GetPredictionsByUserQuery = `
        SELECT id, user_id, input_text, cost, created_at
        FROM predictions
        WHERE user_id = $1
        ORDER BY created_at DESC
    `

	GetPredictionMoviesQuery = `
        SELECT m.id, m.title, m.description, m.year, m.genres
        FROM prediction_movies pm
        JOIN movies m ON m.id = pm.movie_id
        WHERE pm.prediction_id = $1
        ORDER BY pm.position
    `

	NearestMoviesQuery = `
        SELECT id, title, description, year, genres
        FROM movies
        ORDER BY embedding <=> $1
        LIMIT $2
    `

	GetUserByIDQuery = `
        SELECT id, email, is_admin, created_at
        FROM users
        WHERE id = $1
    `
)
