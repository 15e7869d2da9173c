package postgresql

func migrations() map[int]string {
	return map[int]string{
		1: `
			-- Create automations table
			CREATE TABLE automations (
				id UUID PRIMARY KEY,
				owner_id VARCHAR(255) NOT NULL,
				name VARCHAR(255) NOT NULL,
				description TEXT NOT NULL DEFAULT '',
				steps JSONB NOT NULL DEFAULT '[]',
				total_executions BIGINT NOT NULL DEFAULT 0,
				successful_executions BIGINT NOT NULL DEFAULT 0,
				failed_executions BIGINT NOT NULL DEFAULT 0,
				last_execution_status VARCHAR(50),
				last_execution_at TIMESTAMP WITH TIME ZONE,
				created_at TIMESTAMP WITH TIME ZONE NOT NULL,
				updated_at TIMESTAMP WITH TIME ZONE NOT NULL,
				deleted_at TIMESTAMP WITH TIME ZONE
			);

			CREATE INDEX idx_automations_owner_id ON automations(owner_id);
			CREATE INDEX idx_automations_created_at ON automations(created_at);
			CREATE INDEX idx_automations_deleted_at ON automations(deleted_at);

			-- Create executions table
			CREATE TABLE executions (
				id VARCHAR(255) PRIMARY KEY,
				automation_id UUID NOT NULL REFERENCES automations(id),
				user_id VARCHAR(255) NOT NULL,
				status VARCHAR(50) NOT NULL CHECK (status IN ('running', 'success', 'failed')),
				trigger_data JSONB DEFAULT '{}',
				actions_completed INT NOT NULL DEFAULT 0,
				actions_failed INT NOT NULL DEFAULT 0,
				total_steps INT NOT NULL DEFAULT 0,
				result JSONB DEFAULT '[]',
				error_message TEXT,
				started_at TIMESTAMP WITH TIME ZONE NOT NULL,
				completed_at TIMESTAMP WITH TIME ZONE,
				duration_ms BIGINT
			);

			CREATE INDEX idx_executions_automation_id ON executions(automation_id);
			CREATE INDEX idx_executions_status ON executions(status);
			CREATE INDEX idx_executions_started_at ON executions(started_at);

			-- Create action_logs table (tracks individual step results)
			CREATE TABLE action_logs (
				id VARCHAR(255) PRIMARY KEY,
				execution_id VARCHAR(255) NOT NULL REFERENCES executions(id) ON DELETE CASCADE,
				step_index INT NOT NULL,
				step_type VARCHAR(255) NOT NULL,
				status VARCHAR(50) NOT NULL,
				input_data JSONB DEFAULT '{}',
				output_data JSONB,
				error_message TEXT,
				started_at TIMESTAMP WITH TIME ZONE,
				completed_at TIMESTAMP WITH TIME ZONE,
				duration_ms BIGINT
			);

			CREATE INDEX idx_action_logs_execution_id ON action_logs(execution_id);
			CREATE INDEX idx_action_logs_status ON action_logs(status);
			CREATE UNIQUE INDEX idx_action_logs_unique ON action_logs(execution_id, step_index);
		`,
	}
}
